package features

import (
	"fmt"
	"time"

	"nba-matchup-lab/internal/domain"
)

var seasonStart = time.Date(2021, 10, 19, 0, 0, 0, 0, time.UTC)

// teamGame returns a record with every stat set to base.
func teamGame(gameID string, day int, teamID int64, abbr, matchup, wl string, base float64) *domain.GameRecord {
	stats := make(domain.StatLine, domain.NumStats)
	for _, s := range domain.AllStats {
		stats[s] = domain.Some(base)
	}
	return &domain.GameRecord{
		SeasonID:         "2021-22",
		GameDate:         seasonStart.AddDate(0, 0, day),
		GameID:           gameID,
		TeamID:           teamID,
		TeamAbbreviation: abbr,
		Matchup:          matchup,
		WL:               wl,
		Stats:            stats,
	}
}

// matchupGame returns both perspectives of one game. homeWL is the home result.
func matchupGame(gameID string, day int, homeID, visitorID int64, homeWL string, homeBase, visitorBase float64) []*domain.GameRecord {
	ha, va := fmt.Sprintf("T%02d", homeID), fmt.Sprintf("T%02d", visitorID)
	visitorWL := ""
	switch homeWL {
	case domain.ResultWin:
		visitorWL = domain.ResultLoss
	case domain.ResultLoss:
		visitorWL = domain.ResultWin
	}
	return []*domain.GameRecord{
		teamGame(gameID, day, homeID, ha, ha+" vs. "+va, homeWL, homeBase),
		teamGame(gameID, day, visitorID, va, va+" @ "+ha, visitorWL, visitorBase),
	}
}

func rollingOf(rs []*domain.RollingStatRecord, teamID int64, stat domain.Stat, window int) []domain.Value {
	var out []domain.Value
	for _, r := range rs {
		if r.Game.TeamID == teamID {
			out = append(out, r.RollingValue(stat, window))
		}
	}
	return out
}
