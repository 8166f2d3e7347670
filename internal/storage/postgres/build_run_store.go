package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// BuildRunStore implements storage.BuildRunStore using PostgreSQL.
type BuildRunStore struct {
	pool *Pool
}

// NewBuildRunStore creates a new BuildRunStore.
func NewBuildRunStore(pool *Pool) *BuildRunStore {
	return &BuildRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BuildRunStore = (*BuildRunStore)(nil)

const buildRunColumns = `
	run_id, season_id, window_size, epsilon,
	input_records, paired_games, unpaired_game_ids, gated_rows, output_rows,
	data_version, created_at
`

// Insert adds a build run. Returns ErrDuplicateKey if run_id exists.
func (s *BuildRunStore) Insert(ctx context.Context, run *domain.BuildRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	unpaired := run.UnpairedGameIDs
	if unpaired == nil {
		unpaired = []string{}
	}

	query := `
		INSERT INTO build_runs (` + buildRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		run.RunID, run.SeasonID, run.Window, run.Epsilon,
		run.InputRecords, run.PairedGames, unpaired, run.GatedRows, run.OutputRows,
		run.DataVersion, run.CreatedAt,
	)
	return translate("insert build run", err)
}

// GetLatest retrieves the most recent run of a season. Returns ErrNotFound if none.
func (s *BuildRunStore) GetLatest(ctx context.Context, seasonID string) (*domain.BuildRun, error) {
	query := `
		SELECT ` + buildRunColumns + `
		FROM build_runs
		WHERE season_id = $1
		ORDER BY created_at DESC, run_id DESC
		LIMIT 1
	`
	run, err := scanBuildRun(s.pool.QueryRow(ctx, query, seasonID))
	if err != nil {
		return nil, translate("get latest build run", err)
	}
	return run, nil
}

// List retrieves all runs, ordered by created_at ASC.
func (s *BuildRunStore) List(ctx context.Context) ([]*domain.BuildRun, error) {
	query := `
		SELECT ` + buildRunColumns + `
		FROM build_runs
		ORDER BY created_at ASC, run_id ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query build runs: %w", err)
	}
	defer rows.Close()

	var result []*domain.BuildRun
	for rows.Next() {
		run, err := scanBuildRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan build run: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build runs: %w", err)
	}
	return result, nil
}

func scanBuildRun(row pgx.Row) (*domain.BuildRun, error) {
	var r domain.BuildRun
	err := row.Scan(
		&r.RunID, &r.SeasonID, &r.Window, &r.Epsilon,
		&r.InputRecords, &r.PairedGames, &r.UnpairedGameIDs, &r.GatedRows, &r.OutputRows,
		&r.DataVersion, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}
