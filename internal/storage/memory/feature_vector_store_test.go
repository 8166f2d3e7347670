package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

func testVector(season, gameID string, day int) *domain.FeatureVector {
	fv := &domain.FeatureVector{
		MatchupIdentity: domain.MatchupIdentity{
			GameID:        gameID,
			GameDate:      time.Date(2021, 11, day, 0, 0, 0, 0, time.UTC),
			Matchup:       "BOS vs. NYK",
			SeasonID:      season,
			HomeTeamID:    1,
			VisitorTeamID: 2,
		},
		Label: 1,
	}
	fv.Metrics[domain.MetricPTSDiff] = float64(day)
	return fv
}

func TestFeatureVectorStore_InsertBulkAndGet(t *testing.T) {
	store := NewFeatureVectorStore()
	ctx := context.Background()

	vectors := []*domain.FeatureVector{
		testVector("2021-22", "g3", 5),
		testVector("2021-22", "g2", 3),
		testVector("2021-22", "g1", 3),
		testVector("2022-23", "g1", 1),
	}
	if err := store.InsertBulk(ctx, vectors); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetBySeason(ctx, "2021-22")
	if err != nil {
		t.Fatalf("GetBySeason failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(result))
	}
	if result[0].GameID != "g1" || result[1].GameID != "g2" || result[2].GameID != "g3" {
		t.Errorf("Expected order g1,g2,g3, got %s,%s,%s", result[0].GameID, result[1].GameID, result[2].GameID)
	}
	if result[2].Metric(domain.MetricPTSDiff) != 5 {
		t.Errorf("PTS_diff should be 5, got %v", result[2].Metric(domain.MetricPTSDiff))
	}
}

func TestFeatureVectorStore_GetBySeasons(t *testing.T) {
	store := NewFeatureVectorStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []*domain.FeatureVector{
		testVector("2020-21", "a", 9),
		testVector("2021-22", "b", 2),
		testVector("2022-23", "c", 1),
	})

	result, err := store.GetBySeasons(ctx, []string{"2021-22", "2020-21"})
	if err != nil {
		t.Fatalf("GetBySeasons failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(result))
	}
	// Seasons follow the requested order
	if result[0].GameID != "b" || result[1].GameID != "a" {
		t.Errorf("Unexpected order: %s,%s", result[0].GameID, result[1].GameID)
	}
}

func TestFeatureVectorStore_DuplicateKey(t *testing.T) {
	store := NewFeatureVectorStore()
	ctx := context.Background()

	vectors := []*domain.FeatureVector{testVector("2021-22", "g1", 1)}
	if err := store.InsertBulk(ctx, vectors); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.InsertBulk(ctx, vectors); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same game id in another season is a different key
	if err := store.InsertBulk(ctx, []*domain.FeatureVector{testVector("2022-23", "g1", 1)}); err != nil {
		t.Errorf("Insert in other season failed: %v", err)
	}
}

func TestFeatureVectorStore_IntraBatchDuplicate(t *testing.T) {
	store := NewFeatureVectorStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.FeatureVector{
		testVector("2021-22", "g1", 1),
		testVector("2021-22", "g1", 2),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	result, _ := store.GetBySeason(ctx, "2021-22")
	if len(result) != 0 {
		t.Errorf("Expected 0 vectors (rollback), got %d", len(result))
	}
}
