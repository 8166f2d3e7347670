package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// createdAtLayout is fixed-width so TEXT ordering matches time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const buildRunColumns = `
	run_id, season_id, window_size, epsilon,
	input_records, paired_games, unpaired_game_ids, gated_rows, output_rows,
	data_version, created_at
`

// BuildRunStore implements storage.BuildRunStore on SQLite.
// Unpaired game ids are stored as a JSON array.
type BuildRunStore struct {
	db *DB
}

// NewBuildRunStore creates a new BuildRunStore.
func NewBuildRunStore(db *DB) *BuildRunStore {
	return &BuildRunStore{db: db}
}

var _ storage.BuildRunStore = (*BuildRunStore)(nil)

// Insert adds a build run. Returns ErrDuplicateKey if run_id exists.
func (s *BuildRunStore) Insert(ctx context.Context, run *domain.BuildRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	unpaired := run.UnpairedGameIDs
	if unpaired == nil {
		unpaired = []string{}
	}
	encoded, err := json.Marshal(unpaired)
	if err != nil {
		return fmt.Errorf("encode unpaired game ids: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO build_runs (`+buildRunColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SeasonID, run.Window, run.Epsilon,
		run.InputRecords, run.PairedGames, string(encoded), run.GatedRows, run.OutputRows,
		run.DataVersion, run.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		if isConstraintError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert build run %s: %w", run.RunID, err)
	}
	return nil
}

// GetLatest retrieves the most recent run of a season. Returns ErrNotFound if none.
func (s *BuildRunStore) GetLatest(ctx context.Context, seasonID string) (*domain.BuildRun, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT `+buildRunColumns+`
		FROM build_runs
		WHERE season_id = ?
		ORDER BY created_at DESC, run_id DESC
		LIMIT 1`, seasonID)
	run, err := scanBuildRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest build run: %w", err)
	}
	return run, nil
}

// List retrieves all runs, ordered by created_at ASC.
func (s *BuildRunStore) List(ctx context.Context) ([]*domain.BuildRun, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT `+buildRunColumns+`
		FROM build_runs
		ORDER BY created_at ASC, run_id ASC`)
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
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuildRun(row rowScanner) (*domain.BuildRun, error) {
	var (
		r         domain.BuildRun
		unpaired  string
		createdAt string
	)
	err := row.Scan(
		&r.RunID, &r.SeasonID, &r.Window, &r.Epsilon,
		&r.InputRecords, &r.PairedGames, &unpaired, &r.GatedRows, &r.OutputRows,
		&r.DataVersion, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(unpaired), &r.UnpairedGameIDs); err != nil {
		return nil, fmt.Errorf("decode unpaired game ids of %s: %w", r.RunID, err)
	}
	r.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return &r, nil
}
