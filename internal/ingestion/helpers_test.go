package ingestion

import (
	"time"

	"nba-matchup-lab/internal/domain"
)

func fullRecord(season, gameID string, teamID int64, day int, matchup, wl string, base float64) *domain.GameRecord {
	stats := make(domain.StatLine, domain.NumStats)
	for i, s := range domain.AllStats {
		stats[s] = domain.Some(base + float64(i))
	}
	return &domain.GameRecord{
		SeasonID:         season,
		GameDate:         time.Date(2021, 10, day, 0, 0, 0, 0, time.UTC),
		GameID:           gameID,
		TeamID:           teamID,
		TeamAbbreviation: "T" + string(rune('A'+teamID)),
		Matchup:          matchup,
		WL:               wl,
		Stats:            stats,
	}
}
