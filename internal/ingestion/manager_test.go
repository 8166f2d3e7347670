package ingestion

import (
	"context"
	"errors"
	"testing"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/ingestion/stub"
	"nba-matchup-lab/internal/storage"
	"nba-matchup-lab/internal/storage/memory"
)

// orderValidatingGameStore wraps a GameRecordStore and validates ordering in InsertBulk.
// Returns ErrInvalidOrdering if records are not properly ordered.
type orderValidatingGameStore struct {
	storage.GameRecordStore
}

func (s *orderValidatingGameStore) InsertBulk(ctx context.Context, records []*domain.GameRecord) error {
	if err := ValidateGameRecordOrdering(records); err != nil {
		return err
	}
	return s.GameRecordStore.InsertBulk(ctx, records)
}

func TestManager_IngestSeason_Ordering(t *testing.T) {
	// Unordered input; Manager must sort before InsertBulk, otherwise the validating store fails
	records := []*domain.GameRecord{
		fullRecord("2021-22", "g2", 2, 21, "TC @ TB", "L", 100),
		fullRecord("2021-22", "g1", 2, 20, "TC vs. TB", "W", 100),
		fullRecord("2021-22", "g1", 1, 20, "TB @ TC", "L", 100),
		fullRecord("2021-22", "g2", 1, 21, "TB vs. TC", "W", 100),
	}

	source := stub.NewStubGameLogSource(records)
	store := &orderValidatingGameStore{GameRecordStore: memory.NewGameRecordStore()}

	mgr := NewManager(ManagerOptions{Source: source, Store: store})

	ctx := context.Background()
	count, err := mgr.IngestSeason(ctx, "2021-22")
	if err != nil {
		t.Fatalf("IngestSeason failed: %v (Manager must sort before InsertBulk)", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 records, got %d", count)
	}

	stored, err := store.GetBySeason(ctx, "2021-22")
	if err != nil {
		t.Fatalf("GetBySeason: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("Expected 4 stored records, got %d", len(stored))
	}
	if stored[0].TeamID != 1 || stored[0].GameID != "g1" {
		t.Errorf("First stored record should be (1, g1), got (%d, %s)", stored[0].TeamID, stored[0].GameID)
	}
}

func TestManager_IngestSeason_Duplicate(t *testing.T) {
	records := []*domain.GameRecord{
		fullRecord("2021-22", "g1", 1, 20, "TB vs. TC", "W", 100),
	}
	mgr := NewManager(ManagerOptions{
		Source: stub.NewStubGameLogSource(records),
		Store:  memory.NewGameRecordStore(),
	})

	ctx := context.Background()
	if _, err := mgr.IngestSeason(ctx, "2021-22"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	_, err := mgr.IngestSeason(ctx, "2021-22")
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey on re-ingest, got %v", err)
	}
}

func TestManager_IngestSeason_DuplicateInBatch(t *testing.T) {
	records := []*domain.GameRecord{
		fullRecord("2021-22", "g1", 1, 20, "TB vs. TC", "W", 100),
		fullRecord("2021-22", "g1", 1, 20, "TB vs. TC", "W", 100),
	}
	store := memory.NewGameRecordStore()
	mgr := NewManager(ManagerOptions{Source: stub.NewStubGameLogSource(records), Store: store})

	ctx := context.Background()
	_, err := mgr.IngestSeason(ctx, "2021-22")
	if !errors.Is(err, ErrInvalidOrdering) {
		t.Fatalf("Expected ErrInvalidOrdering, got %v", err)
	}
	if errors.Is(err, storage.ErrDuplicateKey) {
		t.Error("in-batch duplicates must not look like an already stored season")
	}
	stored, _ := store.GetBySeason(ctx, "2021-22")
	if len(stored) != 0 {
		t.Errorf("Expected nothing stored, got %d", len(stored))
	}
}

func TestManager_IngestSeason_SchemaMismatch(t *testing.T) {
	bad := fullRecord("2021-22", "g1", 1, 20, "TB vs. TC", "W", 100)
	delete(bad.Stats, domain.StatOREB)

	store := memory.NewGameRecordStore()
	mgr := NewManager(ManagerOptions{
		Source: stub.NewStubGameLogSource([]*domain.GameRecord{bad}),
		Store:  store,
	})

	ctx := context.Background()
	_, err := mgr.IngestSeason(ctx, "2021-22")
	if !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Fatalf("Expected ErrSchemaMismatch, got %v", err)
	}

	stored, _ := store.GetBySeason(ctx, "2021-22")
	if len(stored) != 0 {
		t.Errorf("Expected nothing stored after schema failure, got %d", len(stored))
	}
}

func TestManager_IngestSeason_InvalidSeason(t *testing.T) {
	source := stub.NewStubGameLogSource(nil)
	mgr := NewManager(ManagerOptions{Source: source, Store: memory.NewGameRecordStore()})

	_, err := mgr.IngestSeason(context.Background(), "21-22")
	if !errors.Is(err, domain.ErrInvalidSeason) {
		t.Errorf("Expected ErrInvalidSeason, got %v", err)
	}
	if source.Calls() != 0 {
		t.Errorf("Source should not be called for invalid season")
	}
}

func TestManager_IngestSeason_Empty(t *testing.T) {
	mgr := NewManager(ManagerOptions{
		Source: stub.NewStubGameLogSource(nil),
		Store:  memory.NewGameRecordStore(),
	})

	count, err := mgr.IngestSeason(context.Background(), "2021-22")
	if err != nil {
		t.Fatalf("Empty season should not error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0, got %d", count)
	}
}

func TestManager_IngestSeason_NilSource(t *testing.T) {
	mgr := NewManager(ManagerOptions{})
	count, err := mgr.IngestSeason(context.Background(), "2021-22")
	if err != nil || count != 0 {
		t.Errorf("Expected (0, nil) without source, got (%d, %v)", count, err)
	}
}

func TestManager_IngestSeasons(t *testing.T) {
	records := []*domain.GameRecord{
		fullRecord("2020-21", "a1", 1, 20, "TB vs. TC", "W", 100),
		fullRecord("2020-21", "a1", 2, 20, "TC @ TB", "L", 90),
		fullRecord("2021-22", "b1", 1, 20, "TB vs. TC", "L", 100),
	}
	mgr := NewManager(ManagerOptions{
		Source: stub.NewStubGameLogSource(records),
		Store:  memory.NewGameRecordStore(),
	})

	counts, err := mgr.IngestSeasons(context.Background(), []string{"2020-21", "2021-22"})
	if err != nil {
		t.Fatalf("IngestSeasons: %v", err)
	}
	if counts["2020-21"] != 2 || counts["2021-22"] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestManager_IngestSeasons_StopsOnError(t *testing.T) {
	boom := errors.New("provider down")
	mgr := NewManager(ManagerOptions{
		Source: stub.NewFailingGameLogSource(boom),
		Store:  memory.NewGameRecordStore(),
	})

	_, err := mgr.IngestSeasons(context.Background(), []string{"2020-21", "2021-22"})
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped source error, got %v", err)
	}
}
