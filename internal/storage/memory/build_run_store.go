package memory

import (
	"context"
	"sort"
	"sync"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// BuildRunStore is an in-memory implementation of storage.BuildRunStore.
type BuildRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BuildRun // keyed by run_id
}

// NewBuildRunStore creates a new in-memory build run store.
func NewBuildRunStore() *BuildRunStore {
	return &BuildRunStore{
		data: make(map[string]*domain.BuildRun),
	}
}

// Insert adds a build run. Returns ErrDuplicateKey if run_id exists.
func (s *BuildRunStore) Insert(_ context.Context, run *domain.BuildRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[run.RunID] = copyRun(run)
	return nil
}

// GetLatest retrieves the most recent run of a season. Returns ErrNotFound if none.
func (s *BuildRunStore) GetLatest(_ context.Context, seasonID string) (*domain.BuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.BuildRun
	for _, r := range s.data {
		if r.SeasonID != seasonID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) ||
			(r.CreatedAt.Equal(latest.CreatedAt) && r.RunID > latest.RunID) {
			latest = r
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return copyRun(latest), nil
}

// List retrieves all runs, ordered by created_at ASC.
func (s *BuildRunStore) List(_ context.Context) ([]*domain.BuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BuildRun, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, copyRun(r))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].RunID < result[j].RunID
	})
	return result, nil
}

func copyRun(r *domain.BuildRun) *domain.BuildRun {
	c := *r
	c.UnpairedGameIDs = append([]string(nil), r.UnpairedGameIDs...)
	return &c
}

var _ storage.BuildRunStore = (*BuildRunStore)(nil)
