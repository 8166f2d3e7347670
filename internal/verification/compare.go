// Package verification rebuilds stored feature tables from their game records
// and checks that the stored vectors still match.
package verification

import (
	"math"

	"nba-matchup-lab/internal/domain"
)

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-9

// FieldDivergence represents a mismatch between stored and rebuilt values.
type FieldDivergence struct {
	Field    string // field name
	Expected any    // stored value
	Actual   any    // rebuilt value
}

// CompareFeatureVectors compares two feature vectors of the same game and
// returns divergences. Metrics are compared within FloatTolerance.
func CompareFeatureVectors(stored, rebuilt *domain.FeatureVector) []FieldDivergence {
	var divergences []FieldDivergence
	add := func(field string, expected, actual any) {
		divergences = append(divergences, FieldDivergence{Field: field, Expected: expected, Actual: actual})
	}

	// Identity must match exactly
	if stored.GameID != rebuilt.GameID {
		add("GAME_ID", stored.GameID, rebuilt.GameID)
	}
	if stored.SeasonID != rebuilt.SeasonID {
		add("SEASON_ID", stored.SeasonID, rebuilt.SeasonID)
	}
	if sd, rd := stored.GameDate.Format(domain.GameDateLayout), rebuilt.GameDate.Format(domain.GameDateLayout); sd != rd {
		add("GAME_DATE", sd, rd)
	}
	if stored.Matchup != rebuilt.Matchup {
		add("MATCHUP", stored.Matchup, rebuilt.Matchup)
	}
	if stored.HomeTeamID != rebuilt.HomeTeamID {
		add("TEAM_ID_home", stored.HomeTeamID, rebuilt.HomeTeamID)
	}
	if stored.VisitorTeamID != rebuilt.VisitorTeamID {
		add("TEAM_ID_visitor", stored.VisitorTeamID, rebuilt.VisitorTeamID)
	}
	if stored.HomeTeamAbbreviation != rebuilt.HomeTeamAbbreviation {
		add("TEAM_ABBREVIATION_home", stored.HomeTeamAbbreviation, rebuilt.HomeTeamAbbreviation)
	}
	if stored.VisitorTeamAbbreviation != rebuilt.VisitorTeamAbbreviation {
		add("TEAM_ABBREVIATION_visitor", stored.VisitorTeamAbbreviation, rebuilt.VisitorTeamAbbreviation)
	}

	// Label
	if stored.Label != rebuilt.Label {
		add("WL", stored.Label, rebuilt.Label)
	}

	// Derived metrics
	for _, m := range domain.AllMetrics {
		if !floatEquals(stored.Metric(m), rebuilt.Metric(m)) {
			add(m.String(), stored.Metric(m), rebuilt.Metric(m))
		}
	}

	return divergences
}

// floatEquals compares two float64 values within FloatTolerance.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
