package memory

import (
	"context"
	"sort"
	"sync"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// FeatureVectorStore is an in-memory implementation of storage.FeatureVectorStore.
type FeatureVectorStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeatureVector // keyed by (season_id, game_id)
}

// NewFeatureVectorStore creates a new in-memory feature vector store.
func NewFeatureVectorStore() *FeatureVectorStore {
	return &FeatureVectorStore{
		data: make(map[string]*domain.FeatureVector),
	}
}

func featureVectorKey(fv *domain.FeatureVector) string {
	return fv.SeasonID + "|" + fv.GameID
}

// InsertBulk adds multiple vectors. Fails entire batch on duplicate.
func (s *FeatureVectorStore) InsertBulk(_ context.Context, vectors []*domain.FeatureVector) error {
	if len(vectors) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(vectors))

	for _, fv := range vectors {
		if fv == nil || fv.SeasonID == "" || fv.GameID == "" {
			return storage.ErrInvalidInput
		}
		key := featureVectorKey(fv)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, fv := range vectors {
		vectorCopy := *fv
		s.data[featureVectorKey(fv)] = &vectorCopy
	}

	return nil
}

// GetBySeason retrieves all vectors of a season, ordered by (game_date, game_id).
func (s *FeatureVectorStore) GetBySeason(ctx context.Context, seasonID string) ([]*domain.FeatureVector, error) {
	return s.GetBySeasons(ctx, []string{seasonID})
}

// GetBySeasons retrieves vectors for several seasons, concatenated in the given
// season order and ordered by (game_date, game_id) within a season.
func (s *FeatureVectorStore) GetBySeasons(_ context.Context, seasonIDs []string) ([]*domain.FeatureVector, error) {
	want := make(map[string]int, len(seasonIDs))
	for i, id := range seasonIDs {
		if _, ok := want[id]; !ok {
			want[id] = i
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureVector
	for _, fv := range s.data {
		if _, ok := want[fv.SeasonID]; ok {
			vectorCopy := *fv
			result = append(result, &vectorCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		si, sj := want[result[i].SeasonID], want[result[j].SeasonID]
		if si != sj {
			return si < sj
		}
		if !result[i].GameDate.Equal(result[j].GameDate) {
			return result[i].GameDate.Before(result[j].GameDate)
		}
		return result[i].GameID < result[j].GameID
	})

	return result, nil
}

var _ storage.FeatureVectorStore = (*FeatureVectorStore)(nil)
