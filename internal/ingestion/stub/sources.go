package stub

import (
	"context"
	"sync/atomic"

	"nba-matchup-lab/internal/domain"
)

// StubGameLogSource returns fixed in-memory game records for testing.
// Records can be intentionally unordered to test sorting.
// Implements ingestion.GameLogSource interface.
type StubGameLogSource struct {
	records []*domain.GameRecord
	err     error
	calls   atomic.Int32
}

// NewStubGameLogSource creates a new stub source with the given records.
func NewStubGameLogSource(records []*domain.GameRecord) *StubGameLogSource {
	return &StubGameLogSource{records: records}
}

// NewFailingGameLogSource creates a stub source whose every fetch returns err.
func NewFailingGameLogSource(err error) *StubGameLogSource {
	return &StubGameLogSource{err: err}
}

// FetchSeason returns copies of the records whose SeasonID matches season.
func (s *StubGameLogSource) FetchSeason(_ context.Context, season string) ([]*domain.GameRecord, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	var result []*domain.GameRecord
	for _, r := range s.records {
		if r.SeasonID == season {
			result = append(result, r.Clone())
		}
	}
	return result, nil
}

// Calls returns how many times FetchSeason was invoked.
func (s *StubGameLogSource) Calls() int {
	return int(s.calls.Load())
}
