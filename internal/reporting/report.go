// Package reporting renders feature tables, build summaries and model
// evaluations as CSV, XLSX, Markdown and terminal tables.
package reporting

import "time"

// BuildReport summarises the feature build of one or more seasons.
type BuildReport struct {
	// Metadata
	GeneratedAt time.Time
	Window      int
	Epsilon     float64

	// Per-season build runs, sorted by season id
	Seasons []SeasonSection

	// Data Quality (sufficiency checks)
	DataQuality DataQualitySection

	// Totals across seasons
	TotalRows   int
	DataVersion string // sha256 over the concatenated feature table
}

// SeasonSection describes the latest build run of one season.
type SeasonSection struct {
	SeasonID        string
	RunID           string
	InputRecords    int
	PairedGames     int
	UnpairedGames   int
	GatedRows       int
	OutputRows      int
	HomeWinRate     float64 // mean label of the season's feature vectors
	UnpairedGameIDs []string
	DataVersion     string
	BuiltAt         time.Time
}

// DataQualitySection contains data sufficiency checks and integrity errors.
type DataQualitySection struct {
	SufficiencyChecks []SufficiencyCheckRow
	IntegrityErrors   []string
	AllChecksPassed   bool
}

// SufficiencyCheckRow represents one sufficiency criterion for one season.
type SufficiencyCheckRow struct {
	SeasonID  string
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}
