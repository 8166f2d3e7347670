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

func TestBuildRunStore_InsertGetLatestList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBuildRunStore(pool)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := &domain.BuildRun{
		RunID: "run-1", SeasonID: "2021-22", Window: 10, Epsilon: 1e-6,
		InputRecords: 2460, PairedGames: 1230, GatedRows: 15, OutputRows: 1215,
		DataVersion: "v1", CreatedAt: base,
	}
	newer := &domain.BuildRun{
		RunID: "run-2", SeasonID: "2021-22", Window: 5, Epsilon: 1e-6,
		InputRecords: 2459, PairedGames: 1229, UnpairedGameIDs: []string{"0022100777"},
		GatedRows: 15, OutputRows: 1214, DataVersion: "v2", CreatedAt: base.Add(time.Hour),
	}
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, newer))

	latest, err := store.GetLatest(ctx, "2021-22")
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.RunID)
	assert.Equal(t, 5, latest.Window)
	assert.InDelta(t, 1e-6, latest.Epsilon, 1e-15)
	assert.Equal(t, []string{"0022100777"}, latest.UnpairedGameIDs)
	assert.True(t, latest.CreatedAt.Equal(newer.CreatedAt))

	runs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Empty(t, runs[0].UnpairedGameIDs)
}

func TestBuildRunStore_Errors(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewBuildRunStore(pool)

	_, err := store.GetLatest(ctx, "2021-22")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	run := &domain.BuildRun{RunID: "run-1", SeasonID: "2021-22", DataVersion: "v", CreatedAt: time.Now()}
	require.NoError(t, store.Insert(ctx, run))
	assert.ErrorIs(t, store.Insert(ctx, run), storage.ErrDuplicateKey)
	assert.ErrorIs(t, store.Insert(ctx, &domain.BuildRun{}), storage.ErrInvalidInput)
}
