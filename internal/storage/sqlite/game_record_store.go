package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// GameRecordStore implements storage.GameRecordStore on SQLite.
// Game dates are stored as TEXT in domain.GameDateLayout.
type GameRecordStore struct {
	db *DB
}

// NewGameRecordStore creates a new GameRecordStore.
func NewGameRecordStore(db *DB) *GameRecordStore {
	return &GameRecordStore{db: db}
}

var _ storage.GameRecordStore = (*GameRecordStore)(nil)

var gameRecordColumns = func() string {
	cols := []string{"season_id", "game_date", "game_id", "team_id", "team_abbreviation", "matchup", "wl"}
	for _, s := range domain.AllStats {
		cols = append(cols, s.Column())
	}
	return strings.Join(cols, ", ")
}()

// InsertBulk adds multiple records in one transaction. Fails entire batch on any duplicate.
func (s *GameRecordStore) InsertBulk(ctx context.Context, records []*domain.GameRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", 7+domain.NumStats), ",")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO game_records ("+gameRecordColumns+") VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
		args := []any{
			r.SeasonID, r.GameDate.Format(domain.GameDateLayout), r.GameID, r.TeamID,
			r.TeamAbbreviation, r.Matchup, r.WL,
		}
		for _, stat := range domain.AllStats {
			args = append(args, r.Stat(stat).Ptr())
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			if isConstraintError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert game record %s/%d: %w", r.GameID, r.TeamID, err)
		}
	}

	return tx.Commit()
}

// GetBySeason retrieves all records of a season, ordered by (team_id, game_date, game_id).
func (s *GameRecordStore) GetBySeason(ctx context.Context, seasonID string) ([]*domain.GameRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT `+gameRecordColumns+`
		FROM game_records
		WHERE season_id = ?
		ORDER BY team_id, game_date, game_id`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("query game records: %w", err)
	}
	defer rows.Close()

	var result []*domain.GameRecord
	for rows.Next() {
		var (
			r     domain.GameRecord
			date  string
			stats = make([]sql.NullFloat64, domain.NumStats)
		)
		dest := []any{&r.SeasonID, &date, &r.GameID, &r.TeamID, &r.TeamAbbreviation, &r.Matchup, &r.WL}
		for i := range stats {
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan game record: %w", err)
		}

		r.GameDate, err = time.Parse(domain.GameDateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse game date %q: %w", date, err)
		}
		r.Stats = make(domain.StatLine, domain.NumStats)
		for i, stat := range domain.AllStats {
			if stats[i].Valid {
				r.Stats[stat] = domain.Some(stats[i].Float64)
			} else {
				r.Stats[stat] = domain.Missing()
			}
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

// ListSeasons returns the distinct season ids present, ascending.
func (s *GameRecordStore) ListSeasons(ctx context.Context) ([]string, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT DISTINCT season_id FROM game_records ORDER BY season_id`)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seasons = append(seasons, id)
	}
	return seasons, rows.Err()
}
