package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-matchup-lab/internal/domain"
)

func pointsSeries(teamID int64, points ...float64) []*domain.GameRecord {
	var out []*domain.GameRecord
	for i, p := range points {
		g := teamGame(string(rune('a'+i)), i, teamID, "AAA", "AAA vs. BBB", domain.ResultWin, 1)
		g.Stats[domain.StatPTS] = domain.Some(p)
		out = append(out, g)
	}
	return out
}

func assertSeries(t *testing.T, want []any, got []domain.Value) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		if w == nil {
			assert.False(t, got[i].Valid(), "index %d should be missing, got %v", i, got[i])
			continue
		}
		v, ok := got[i].Get()
		require.True(t, ok, "index %d should be present", i)
		assert.InDelta(t, w.(float64), v, 1e-12, "index %d", i)
	}
}

func TestComputeRollingFeatures_TrailingMean(t *testing.T) {
	rs := ComputeRollingFeatures(pointsSeries(1, 100, 110, 90, 120), 10)

	assertSeries(t, []any{nil, 100.0, 105.0, 100.0}, rollingOf(rs, 1, domain.StatPTS, 10))
}

func TestComputeRollingFeatures_WindowCap(t *testing.T) {
	records := pointsSeries(1, 100, 110, 90, 130, 70)

	assertSeries(t, []any{nil, 100.0, 105.0, 100.0, 107.5},
		rollingOf(ComputeRollingFeatures(records, 10), 1, domain.StatPTS, 10))
	assertSeries(t, []any{nil, 100.0, 105.0, 100.0, 110.0},
		rollingOf(ComputeRollingFeatures(records, 2), 1, domain.StatPTS, 2))
}

func TestComputeRollingFeatures_MissingRawValue(t *testing.T) {
	records := pointsSeries(1, 100, 0, 120, 80)
	records[1].Stats[domain.StatPTS] = domain.Missing()

	// The missing game takes a slot but adds nothing
	assertSeries(t, []any{nil, 100.0, 100.0, 110.0},
		rollingOf(ComputeRollingFeatures(records, 10), 1, domain.StatPTS, 10))

	// Window of one covering only the missing game
	assertSeries(t, []any{nil, 100.0, nil, 120.0},
		rollingOf(ComputeRollingFeatures(records, 1), 1, domain.StatPTS, 1))
}

func TestComputeRollingFeatures_NoLeakage(t *testing.T) {
	records := pointsSeries(1, 100, 110, 90)
	before := rollingOf(ComputeRollingFeatures(records, 10), 1, domain.StatPTS, 10)

	records[2].Stats[domain.StatPTS] = domain.Some(9999)
	after := rollingOf(ComputeRollingFeatures(records, 10), 1, domain.StatPTS, 10)

	assert.Equal(t, before, after)
}

func TestComputeRollingFeatures_OrderIndependent(t *testing.T) {
	a := pointsSeries(1, 100, 110, 90, 120)
	b := pointsSeries(2, 80, 95, 105, 85)
	ordered := append(append([]*domain.GameRecord{}, a...), b...)
	shuffled := []*domain.GameRecord{b[3], a[2], a[0], b[1], a[3], b[0], b[2], a[1]}

	r1 := ComputeRollingFeatures(ordered, 10)
	r2 := ComputeRollingFeatures(shuffled, 10)

	require.Len(t, r2, len(r1))
	for i := range r1 {
		assert.Equal(t, r1[i].Game.GameID, r2[i].Game.GameID)
		assert.Equal(t, r1[i].Game.TeamID, r2[i].Game.TeamID)
		assert.Equal(t, r1[i].Rolling, r2[i].Rolling)
	}

	// Teams do not share history
	assertSeries(t, []any{nil, 80.0, 87.5, 93.33333333333333}, rollingOf(r1, 2, domain.StatPTS, 10))

	// Input slice order is untouched
	assert.Equal(t, b[3], shuffled[0])
}

func TestComputeRollingFeatures_AllStatsAndDefaultWindow(t *testing.T) {
	rs := ComputeRollingFeatures(pointsSeries(1, 100, 110), 0)

	require.Len(t, rs, 2)
	assert.Len(t, rs[1].Rolling, domain.NumStats)
	for _, s := range domain.AllStats {
		assert.False(t, rs[0].RollingValue(s, DefaultWindow).Valid(), "first game %s", s)
		assert.True(t, rs[1].RollingValue(s, DefaultWindow).Valid(), "second game %s", s)
	}
}

func TestComputeRollingFeatures_Empty(t *testing.T) {
	assert.Empty(t, ComputeRollingFeatures(nil, 10))
}
