package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullGame() *GameRecord {
	stats := make(StatLine, NumStats)
	for _, s := range AllStats {
		stats[s] = Some(1)
	}
	return &GameRecord{
		SeasonID:         "2021-22",
		GameDate:         time.Date(2021, 10, 19, 0, 0, 0, 0, time.UTC),
		GameID:           "0022100001",
		TeamID:           1610612738,
		TeamAbbreviation: "BOS",
		Matchup:          "BOS vs. NYK",
		WL:               "W",
		Stats:            stats,
	}
}

func TestGameRecord_Validate(t *testing.T) {
	require.NoError(t, fullGame().Validate())

	// A null statistic is allowed; an absent one is not
	g := fullGame()
	g.Stats[StatFTPct] = Missing()
	require.NoError(t, g.Validate())

	g = fullGame()
	delete(g.Stats, StatOREB)
	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "OREB")

	g = fullGame()
	g.GameID = ""
	assert.True(t, errors.Is(g.Validate(), ErrSchemaMismatch))

	g = fullGame()
	g.GameDate = time.Time{}
	assert.True(t, errors.Is(g.Validate(), ErrSchemaMismatch))

	// Unknown result markers are not a schema error
	g = fullGame()
	g.WL = ""
	assert.NoError(t, g.Validate())
}

func TestGameRecord_CloneIsDeep(t *testing.T) {
	g := fullGame()
	c := g.Clone()
	c.Stats[StatPTS] = Some(99)

	assert.Equal(t, Some(1), g.Stat(StatPTS))
	assert.Equal(t, Some(99), c.Stat(StatPTS))
}

func TestClassifyMatchup(t *testing.T) {
	tests := []struct {
		matchup string
		side    Side
		ok      bool
	}{
		{"BOS vs. NYK", SideHome, true},
		{"NYK @ BOS", SideVisitor, true},
		{"BOS - NYK", SideHome, false},
		{"", SideHome, false},
	}
	for _, tt := range tests {
		side, ok := ClassifyMatchup(tt.matchup)
		assert.Equal(t, tt.ok, ok, tt.matchup)
		if tt.ok {
			assert.Equal(t, tt.side, side, tt.matchup)
		}
	}
}

func TestDiffStats(t *testing.T) {
	assert.Equal(t, []Stat{
		StatPTS, StatFGM, StatFG3M, StatFGA, StatFTA, StatBLK,
		StatFGPct, StatFG3Pct, StatFTPct,
	}, DiffStats())

	for _, s := range DiffStats() {
		_, ok := DiffMetric(s)
		assert.True(t, ok, s.String())
	}
	for s := range RatioInputStats {
		_, ok := DiffMetric(s)
		assert.False(t, ok, s.String())
	}
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "PTS_last10", RollingKey{Stat: StatPTS, Window: 10}.String())
	assert.Equal(t, "FG3_PCT_last5_visitor", FeatureKey{Stat: StatFG3Pct, Window: 5, Side: SideVisitor}.String())
	assert.Equal(t, "AST/TOV_ratio_diff", MetricASTTOVRatioDiff.String())
	assert.Equal(t, "fg_pct", StatFGPct.Column())

	m, err := ParseMetric("STL%_diff")
	require.NoError(t, err)
	assert.Equal(t, MetricSTLPctDiff, m)

	_, err = ParseStat("XYZ")
	assert.Error(t, err)
}

func TestValidateSeason(t *testing.T) {
	assert.NoError(t, ValidateSeason("2021-22"))
	assert.True(t, errors.Is(ValidateSeason("2021"), ErrInvalidSeason))
	assert.True(t, errors.Is(ValidateSeason("22021"), ErrInvalidSeason))
}

func TestColumnIndex(t *testing.T) {
	header := append([]string{"EXTRA"}, SourceColumns...)
	idx, err := ColumnIndex(header)
	require.NoError(t, err)
	assert.Len(t, idx, 21)
	assert.Equal(t, 1, idx[ColSeasonID])
	assert.Equal(t, 21, idx["DREB"])

	_, err = ColumnIndex(SourceColumns[:20])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "DREB")
}
