package ingestion

import (
	"context"

	"nba-matchup-lab/internal/domain"
)

// GameLogSource provides raw per-team game records from external sources.
type GameLogSource interface {
	// FetchSeason returns one record per team per game for the regular season.
	// Records may be unordered; Manager enforces deterministic ordering.
	FetchSeason(ctx context.Context, season string) ([]*domain.GameRecord, error)
}
