package domain

import (
	"fmt"
	"strings"
)

// Stat identifies a tracked box-score statistic.
type Stat uint8

// Tracked statistics, in canonical column order.
const (
	StatPTS Stat = iota
	StatFGM
	StatFG3M
	StatFGA
	StatFTA
	StatOREB
	StatDREB
	StatAST
	StatTOV
	StatBLK
	StatSTL
	StatFGPct
	StatFG3Pct
	StatFTPct

	numStats
)

// NumStats is the number of tracked statistics.
const NumStats = int(numStats)

var statNames = [NumStats]string{
	"PTS", "FGM", "FG3M", "FGA", "FTA", "OREB", "DREB",
	"AST", "TOV", "BLK", "STL", "FG_PCT", "FG3_PCT", "FT_PCT",
}

// AllStats lists every tracked statistic in canonical column order.
var AllStats = []Stat{
	StatPTS, StatFGM, StatFG3M, StatFGA, StatFTA, StatOREB, StatDREB,
	StatAST, StatTOV, StatBLK, StatSTL, StatFGPct, StatFG3Pct, StatFTPct,
}

// RatioInputStats are consumed by the ratio metrics and get no simple differential.
var RatioInputStats = map[Stat]bool{
	StatAST:  true,
	StatDREB: true,
	StatOREB: true,
	StatTOV:  true,
	StatSTL:  true,
}

// DiffStats returns the tracked statistics that get a simple home-minus-visitor
// differential, in canonical column order.
func DiffStats() []Stat {
	stats := make([]Stat, 0, NumStats-len(RatioInputStats))
	for _, s := range AllStats {
		if !RatioInputStats[s] {
			stats = append(stats, s)
		}
	}
	return stats
}

// Valid reports whether s is a tracked statistic.
func (s Stat) Valid() bool {
	return s < numStats
}

// String returns the provider column name (e.g. "FG3_PCT").
func (s Stat) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stat(%d)", uint8(s))
	}
	return statNames[s]
}

// Column returns the SQL column name (e.g. "fg3_pct").
func (s Stat) Column() string {
	return strings.ToLower(s.String())
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal stat: unknown stat %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(text []byte) error {
	parsed, err := ParseStat(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStat resolves a provider column name to a Stat.
func ParseStat(name string) (Stat, error) {
	for i, n := range statNames {
		if n == name {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}
