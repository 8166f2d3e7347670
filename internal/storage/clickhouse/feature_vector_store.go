package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// FeatureVectorStore implements storage.FeatureVectorStore using ClickHouse.
// MergeTree does not enforce uniqueness, so duplicates are checked before insert.
type FeatureVectorStore struct {
	conn *Conn
}

// NewFeatureVectorStore creates a new FeatureVectorStore.
func NewFeatureVectorStore(conn *Conn) *FeatureVectorStore {
	return &FeatureVectorStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureVectorStore = (*FeatureVectorStore)(nil)

var featureVectorColumns = func() string {
	cols := []string{
		"season_id", "game_id", "game_date", "matchup",
		"home_team_id", "visitor_team_id", "home_team_abbreviation", "visitor_team_abbreviation",
		"label",
	}
	for _, m := range domain.AllMetrics {
		cols = append(cols, m.Column())
	}
	return strings.Join(cols, ", ")
}()

// InsertBulk adds multiple vectors. Fails entire batch on duplicate (season_id, game_id).
func (s *FeatureVectorStore) InsertBulk(ctx context.Context, vectors []*domain.FeatureVector) (err error) {
	if len(vectors) == 0 {
		return nil
	}
	defer func(start time.Time) { recordQuery("insert_feature_vectors", start, err) }(time.Now())

	// Check for intra-batch duplicates
	type key struct {
		seasonID string
		gameID   string
	}
	seen := make(map[key]struct{}, len(vectors))
	seasons := make(map[string]struct{})
	for _, fv := range vectors {
		if fv == nil || fv.SeasonID == "" || fv.GameID == "" {
			return storage.ErrInvalidInput
		}
		k := key{fv.SeasonID, fv.GameID}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		seasons[fv.SeasonID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for season := range seasons {
		existing, err := s.gameIDs(ctx, season)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, id := range existing {
			if _, dup := seen[key{season, id}]; dup {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO feature_vectors ("+featureVectorColumns+")")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, fv := range vectors {
		args := []any{
			fv.SeasonID, fv.GameID, fv.GameDate, fv.Matchup,
			fv.HomeTeamID, fv.VisitorTeamID, fv.HomeTeamAbbreviation, fv.VisitorTeamAbbreviation,
			uint8(fv.Label),
		}
		for _, v := range fv.Metrics {
			args = append(args, v)
		}
		if err := batch.Append(args...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySeason retrieves all vectors of a season, ordered by (game_date, game_id).
func (s *FeatureVectorStore) GetBySeason(ctx context.Context, seasonID string) (result []*domain.FeatureVector, err error) {
	defer func(start time.Time) { recordQuery("select_feature_vectors", start, err) }(time.Now())

	query := `
		SELECT ` + featureVectorColumns + `
		FROM feature_vectors
		WHERE season_id = ?
		ORDER BY game_date ASC, game_id ASC
	`

	rows, err := s.conn.Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("query by season: %w", err)
	}
	defer rows.Close()

	return scanFeatureVectors(rows)
}

// GetBySeasons retrieves vectors for several seasons, concatenated in the given season order.
func (s *FeatureVectorStore) GetBySeasons(ctx context.Context, seasonIDs []string) ([]*domain.FeatureVector, error) {
	var result []*domain.FeatureVector
	seen := make(map[string]struct{}, len(seasonIDs))
	for _, season := range seasonIDs {
		if _, dup := seen[season]; dup {
			continue
		}
		seen[season] = struct{}{}

		vectors, err := s.GetBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		result = append(result, vectors...)
	}
	return result, nil
}

func (s *FeatureVectorStore) gameIDs(ctx context.Context, seasonID string) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT game_id FROM feature_vectors WHERE season_id = ?`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanFeatureVectors scans multiple rows.
func scanFeatureVectors(rows chRows) ([]*domain.FeatureVector, error) {
	var vectors []*domain.FeatureVector

	for rows.Next() {
		var fv domain.FeatureVector
		var label uint8

		dest := []any{
			&fv.SeasonID, &fv.GameID, &fv.GameDate, &fv.Matchup,
			&fv.HomeTeamID, &fv.VisitorTeamID, &fv.HomeTeamAbbreviation, &fv.VisitorTeamAbbreviation,
			&label,
		}
		for i := range fv.Metrics {
			dest = append(dest, &fv.Metrics[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan feature vector row: %w", err)
		}

		fv.Label = int(label)
		fv.GameDate = fv.GameDate.UTC()
		vectors = append(vectors, &fv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature vector rows: %w", err)
	}

	return vectors, nil
}
