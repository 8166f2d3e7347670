package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

func testGame(season, gameID string, teamID int64, day int) *domain.GameRecord {
	stats := make(domain.StatLine, domain.NumStats)
	for _, s := range domain.AllStats {
		stats[s] = domain.Some(float64(day))
	}
	return &domain.GameRecord{
		SeasonID:         season,
		GameDate:         time.Date(2021, 10, day, 0, 0, 0, 0, time.UTC),
		GameID:           gameID,
		TeamID:           teamID,
		TeamAbbreviation: "BOS",
		Matchup:          "BOS vs. NYK",
		WL:               domain.ResultWin,
		Stats:            stats,
	}
}

func TestGameRecordStore_InsertBulkAndGet(t *testing.T) {
	store := NewGameRecordStore()
	ctx := context.Background()

	records := []*domain.GameRecord{
		testGame("2021-22", "g2", 2, 21),
		testGame("2021-22", "g1", 2, 19),
		testGame("2021-22", "g1", 1, 19),
		testGame("2022-23", "g9", 1, 20),
	}

	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetBySeason(ctx, "2021-22")
	if err != nil {
		t.Fatalf("GetBySeason failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result))
	}

	// Ordered by (team_id, game_date, game_id)
	if result[0].TeamID != 1 || result[1].GameID != "g1" || result[2].GameID != "g2" {
		t.Errorf("Unexpected order: %s/%d %s/%d %s/%d",
			result[0].GameID, result[0].TeamID, result[1].GameID, result[1].TeamID, result[2].GameID, result[2].TeamID)
	}
}

func TestGameRecordStore_CopyOnReadAndWrite(t *testing.T) {
	store := NewGameRecordStore()
	ctx := context.Background()

	r := testGame("2021-22", "g1", 1, 19)
	if err := store.InsertBulk(ctx, []*domain.GameRecord{r}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	r.Stats[domain.StatPTS] = domain.Some(999)

	got, _ := store.GetBySeason(ctx, "2021-22")
	if v, _ := got[0].Stat(domain.StatPTS).Get(); v != 19 {
		t.Errorf("Stored record was mutated through caller pointer: PTS=%v", v)
	}

	got[0].Stats[domain.StatPTS] = domain.Missing()
	again, _ := store.GetBySeason(ctx, "2021-22")
	if !again[0].Stat(domain.StatPTS).Valid() {
		t.Error("Stored record was mutated through returned pointer")
	}
}

func TestGameRecordStore_DuplicateKey(t *testing.T) {
	store := NewGameRecordStore()
	ctx := context.Background()

	records := []*domain.GameRecord{testGame("2021-22", "g1", 1, 19)}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, records)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestGameRecordStore_IntraBatchDuplicate(t *testing.T) {
	store := NewGameRecordStore()
	ctx := context.Background()

	records := []*domain.GameRecord{
		testGame("2021-22", "g1", 1, 19),
		testGame("2021-22", "g2", 1, 21),
		testGame("2021-22", "g1", 1, 19),
	}

	err := store.InsertBulk(ctx, records)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	result, _ := store.GetBySeason(ctx, "2021-22")
	if len(result) != 0 {
		t.Errorf("Expected 0 records (rollback), got %d", len(result))
	}
}

func TestGameRecordStore_InvalidInput(t *testing.T) {
	store := NewGameRecordStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.GameRecord{nil})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestGameRecordStore_ListSeasons(t *testing.T) {
	store := NewGameRecordStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []*domain.GameRecord{
		testGame("2022-23", "g1", 1, 19),
		testGame("2020-21", "g1", 1, 19),
		testGame("2022-23", "g2", 1, 20),
	})

	seasons, err := store.ListSeasons(ctx)
	if err != nil {
		t.Fatalf("ListSeasons failed: %v", err)
	}
	if len(seasons) != 2 || seasons[0] != "2020-21" || seasons[1] != "2022-23" {
		t.Errorf("Unexpected seasons: %v", seasons)
	}
}
