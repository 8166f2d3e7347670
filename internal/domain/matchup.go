package domain

import (
	"fmt"
	"time"
)

// FeatureKey addresses one side's rolling mean inside a matchup.
type FeatureKey struct {
	Stat   Stat
	Window int
	Side   Side
}

// String renders the column name, e.g. "PTS_last10_home".
func (k FeatureKey) String() string {
	return fmt.Sprintf("%s_last%d_%s", k.Stat, k.Window, k.Side)
}

// PairedRecord joins the home and visitor perspectives of one game.
type PairedRecord struct {
	GameID   string
	SeasonID string // from the home perspective
	WL       string // raw result marker from the home perspective
	Label    Value  // 1 home win, 0 home loss, missing otherwise
	Home     *RollingStatRecord
	Visitor  *RollingStatRecord
}

// MatchupIdentity holds the identifying fields of a matchup-level row.
type MatchupIdentity struct {
	GameID                  string
	GameDate                time.Time
	Matchup                 string // home perspective descriptor
	SeasonID                string
	HomeTeamID              int64
	VisitorTeamID           int64
	HomeTeamAbbreviation    string
	VisitorTeamAbbreviation string
}

// MatchupFeatureRecord is the cleaned projection of a PairedRecord: identity,
// label and both sides' rolling means for one window.
type MatchupFeatureRecord struct {
	MatchupIdentity
	Label    Value
	Window   int
	Features map[FeatureKey]Value
}

// Feature returns the rolling mean of stat for side.
func (m *MatchupFeatureRecord) Feature(stat Stat, side Side) Value {
	return m.Features[FeatureKey{Stat: stat, Window: m.Window, Side: side}]
}
