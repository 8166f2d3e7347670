package domain

import "time"

// BuildRun records the outcome of building one season's feature table.
type BuildRun struct {
	RunID           string    // deterministic, see idhash.ComputeBuildRunID
	SeasonID        string    // season identifier
	Window          int       // rolling window size
	Epsilon         float64   // division guard
	InputRecords    int       // team-game records read
	PairedGames     int       // games with both perspectives
	UnpairedGameIDs []string  // games dropped by the join, sorted
	GatedRows       int       // paired games dropped by the completeness gate
	OutputRows      int       // feature vectors produced
	DataVersion     string    // sha256 of the canonical feature table
	CreatedAt       time.Time // build time (UTC)
}

// UnpairedGames returns the number of games dropped by the join.
func (r *BuildRun) UnpairedGames() int {
	return len(r.UnpairedGameIDs)
}
