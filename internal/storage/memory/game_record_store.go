package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// GameRecordStore is an in-memory implementation of storage.GameRecordStore.
type GameRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.GameRecord // keyed by (season_id, game_id, team_id)
}

// NewGameRecordStore creates a new in-memory game record store.
func NewGameRecordStore() *GameRecordStore {
	return &GameRecordStore{
		data: make(map[string]*domain.GameRecord),
	}
}

func gameRecordKey(r *domain.GameRecord) string {
	return fmt.Sprintf("%s|%s|%d", r.SeasonID, r.GameID, r.TeamID)
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *GameRecordStore) InsertBulk(_ context.Context, records []*domain.GameRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))

	// First pass: check for duplicates (existing + intra-batch)
	for _, r := range records {
		if r == nil || r.SeasonID == "" || r.GameID == "" {
			return storage.ErrInvalidInput
		}
		key := gameRecordKey(r)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		s.data[gameRecordKey(r)] = r.Clone()
	}

	return nil
}

// GetBySeason retrieves all records of a season, ordered by (team_id, game_date, game_id).
func (s *GameRecordStore) GetBySeason(_ context.Context, seasonID string) ([]*domain.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GameRecord
	for _, r := range s.data {
		if r.SeasonID == seasonID {
			result = append(result, r.Clone())
		}
	}

	domain.SortGameRecords(result)
	return result, nil
}

// ListSeasons returns the distinct season ids present, ascending.
func (s *GameRecordStore) ListSeasons(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range s.data {
		seen[r.SeasonID] = struct{}{}
	}

	seasons := make([]string, 0, len(seen))
	for id := range seen {
		seasons = append(seasons, id)
	}
	sort.Strings(seasons)
	return seasons, nil
}

var _ storage.GameRecordStore = (*GameRecordStore)(nil)
