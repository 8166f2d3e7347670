package storage

import (
	"context"

	"nba-matchup-lab/internal/domain"
)

// GameRecordStore provides access to game_records storage.
// One row per (season_id, game_id, team_id).
type GameRecordStore interface {
	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.GameRecord) error

	// GetBySeason retrieves all records of a season, ordered by (team_id, game_date, game_id).
	GetBySeason(ctx context.Context, seasonID string) ([]*domain.GameRecord, error)

	// ListSeasons returns the distinct season ids present, ascending.
	ListSeasons(ctx context.Context) ([]string, error)
}

// FeatureVectorStore provides access to feature_vectors storage.
// One row per (season_id, game_id).
type FeatureVectorStore interface {
	// InsertBulk adds multiple vectors. Fails entire batch on duplicate (season_id, game_id).
	InsertBulk(ctx context.Context, vectors []*domain.FeatureVector) error

	// GetBySeason retrieves all vectors of a season, ordered by (game_date, game_id).
	GetBySeason(ctx context.Context, seasonID string) ([]*domain.FeatureVector, error)

	// GetBySeasons retrieves vectors for several seasons, concatenated in the given
	// season order, each season ordered by (game_date, game_id).
	GetBySeasons(ctx context.Context, seasonIDs []string) ([]*domain.FeatureVector, error)
}

// BuildRunStore provides access to build_runs storage.
type BuildRunStore interface {
	// Insert adds a build run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.BuildRun) error

	// GetLatest retrieves the most recent run of a season. Returns ErrNotFound if none.
	GetLatest(ctx context.Context, seasonID string) (*domain.BuildRun, error)

	// List retrieves all runs, ordered by created_at ASC.
	List(ctx context.Context) ([]*domain.BuildRun, error)
}
