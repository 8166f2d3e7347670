package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

func createTestGameRecord(season, gameID string, teamID int64, day int) *domain.GameRecord {
	stats := make(domain.StatLine, domain.NumStats)
	for i, s := range domain.AllStats {
		stats[s] = domain.Some(float64(100 + i))
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

func TestGameRecordStore_InsertBulkAndGetBySeason(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewGameRecordStore(pool)

	withNull := createTestGameRecord("2021-22", "0022100002", 1610612738, 22)
	withNull.Stats[domain.StatFTPct] = domain.Missing()
	withNull.WL = ""

	records := []*domain.GameRecord{
		withNull,
		createTestGameRecord("2021-22", "0022100001", 1610612738, 20),
		createTestGameRecord("2021-22", "0022100001", 1610612752, 20),
		createTestGameRecord("2022-23", "0022200001", 1610612738, 19),
	}
	require.NoError(t, store.InsertBulk(ctx, records))

	got, err := store.GetBySeason(ctx, "2021-22")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "0022100001", got[0].GameID)
	assert.Equal(t, "0022100002", got[1].GameID)
	assert.Equal(t, int64(1610612752), got[2].TeamID)

	assert.True(t, got[0].GameDate.Equal(records[1].GameDate))
	assert.Equal(t, "BOS vs. NYK", got[0].Matchup)
	assert.Equal(t, domain.Some(100), got[0].Stat(domain.StatPTS))
	assert.NoError(t, got[0].Validate())

	assert.False(t, got[1].Stat(domain.StatFTPct).Valid())
	assert.Equal(t, "", got[1].WL)
	assert.NoError(t, got[1].Validate(), "null statistic must round-trip as present-but-missing")
}

func TestGameRecordStore_DuplicateRejectsBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewGameRecordStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.GameRecord{
		createTestGameRecord("2021-22", "g1", 1, 20),
	}))

	err := store.InsertBulk(ctx, []*domain.GameRecord{
		createTestGameRecord("2021-22", "g2", 1, 21),
		createTestGameRecord("2021-22", "g1", 1, 20),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := store.GetBySeason(ctx, "2021-22")
	require.NoError(t, err)
	assert.Len(t, got, 1, "failed batch must be rolled back")
}

func TestGameRecordStore_ListSeasons(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewGameRecordStore(pool)

	seasons, err := store.ListSeasons(ctx)
	require.NoError(t, err)
	assert.Empty(t, seasons)

	require.NoError(t, store.InsertBulk(ctx, []*domain.GameRecord{
		createTestGameRecord("2022-23", "g1", 1, 20),
		createTestGameRecord("2020-21", "g1", 1, 20),
	}))

	seasons, err = store.ListSeasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-21", "2022-23"}, seasons)
}
