package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// GameRecordStore implements storage.GameRecordStore using PostgreSQL.
// Statistics are nullable DOUBLE PRECISION columns named after domain.Stat.Column.
type GameRecordStore struct {
	pool *Pool
}

// NewGameRecordStore creates a new GameRecordStore.
func NewGameRecordStore(pool *Pool) *GameRecordStore {
	return &GameRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GameRecordStore = (*GameRecordStore)(nil)

var gameRecordColumns = func() []string {
	cols := []string{"season_id", "game_date", "game_id", "team_id", "team_abbreviation", "matchup", "wl"}
	for _, s := range domain.AllStats {
		cols = append(cols, s.Column())
	}
	return cols
}()

var (
	insertGameRecordSQL = func() string {
		placeholders := make([]string, len(gameRecordColumns))
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		return fmt.Sprintf("INSERT INTO game_records (%s) VALUES (%s)",
			strings.Join(gameRecordColumns, ", "), strings.Join(placeholders, ", "))
	}()

	selectGameRecordsSQL = fmt.Sprintf(`
		SELECT %s
		FROM game_records
		WHERE season_id = $1
		ORDER BY team_id ASC, game_date ASC, game_id ASC
	`, strings.Join(gameRecordColumns, ", "))
)

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *GameRecordStore) InsertBulk(ctx context.Context, records []*domain.GameRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	defer func(start time.Time) { recordQuery("insert_game_records", start, err) }(time.Now())

	batch := &pgx.Batch{}
	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
		batch.Queue(insertGameRecordSQL, gameRecordArgs(r)...)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return translate("insert game record", err)
		}
	}
	if err := results.Close(); err != nil {
		return translate("close insert batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySeason retrieves all records of a season, ordered by (team_id, game_date, game_id).
func (s *GameRecordStore) GetBySeason(ctx context.Context, seasonID string) (result []*domain.GameRecord, err error) {
	defer func(start time.Time) { recordQuery("select_game_records", start, err) }(time.Now())

	rows, err := s.pool.Query(ctx, selectGameRecordsSQL, seasonID)
	if err != nil {
		return nil, fmt.Errorf("query game records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanGameRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game records: %w", err)
	}

	return result, nil
}

// ListSeasons returns the distinct season ids present, ascending.
func (s *GameRecordStore) ListSeasons(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT season_id FROM game_records ORDER BY season_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}

	seasons, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect seasons: %w", err)
	}
	return seasons, nil
}

func gameRecordArgs(r *domain.GameRecord) []any {
	args := []any{r.SeasonID, r.GameDate, r.GameID, r.TeamID, r.TeamAbbreviation, r.Matchup, r.WL}
	for _, stat := range domain.AllStats {
		args = append(args, r.Stat(stat).Ptr())
	}
	return args
}

func scanGameRecord(row pgx.Row) (*domain.GameRecord, error) {
	var r domain.GameRecord
	stats := make([]*float64, domain.NumStats)

	dest := []any{&r.SeasonID, &r.GameDate, &r.GameID, &r.TeamID, &r.TeamAbbreviation, &r.Matchup, &r.WL}
	for i := range stats {
		dest = append(dest, &stats[i])
	}

	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan game record: %w", err)
	}

	r.GameDate = r.GameDate.UTC()
	r.Stats = make(domain.StatLine, domain.NumStats)
	for i, stat := range domain.AllStats {
		r.Stats[stat] = domain.ValueOf(stats[i])
	}
	return &r, nil
}
