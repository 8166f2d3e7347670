package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-matchup-lab/internal/domain"
)

func vector(season, gameID string, label int, fill float64) *domain.FeatureVector {
	fv := &domain.FeatureVector{Label: label}
	fv.SeasonID = season
	fv.GameID = gameID
	for i := range fv.Metrics {
		fv.Metrics[i] = fill + float64(i)
	}
	return fv
}

func TestConcat_KeepsDuplicates(t *testing.T) {
	a := []*domain.FeatureVector{vector("2021-22", "1", 1, 0)}
	b := []*domain.FeatureVector{vector("2022-23", "2", 0, 0), a[0]}

	out := Concat(a, nil, b)
	require.Len(t, out, 3)
	assert.Equal(t, "1", out[0].GameID)
	assert.Equal(t, "2", out[1].GameID)
	assert.Same(t, a[0], out[2])

	assert.Empty(t, Concat())
}

func TestSplit(t *testing.T) {
	vectors := []*domain.FeatureVector{
		vector("2020-21", "a", 1, 0),
		vector("2023-24", "b", 0, 0),
		vector("2021-22", "c", 1, 0),
		vector("2019-20", "d", 1, 0),
	}

	train, test, err := Split(vectors, []string{"2020-21", "2021-22"}, []string{"2023-24"})
	require.NoError(t, err)
	require.Len(t, train, 2)
	assert.Equal(t, "a", train[0].GameID)
	assert.Equal(t, "c", train[1].GameID)
	require.Len(t, test, 1)
	assert.Equal(t, "b", test[0].GameID)
}

func TestSplit_Errors(t *testing.T) {
	vectors := []*domain.FeatureVector{vector("2020-21", "a", 1, 0)}

	_, _, err := Split(vectors, []string{"2020-21"}, []string{"2020-21"})
	assert.Error(t, err)

	_, _, err = Split(vectors, []string{"2020-21"}, []string{"2023-24"})
	assert.ErrorIs(t, err, ErrEmptySplit)

	_, _, err = Split(vectors, []string{"2022-23"}, []string{"2020-21"})
	assert.ErrorIs(t, err, ErrEmptySplit)
}

func TestDesign(t *testing.T) {
	vectors := []*domain.FeatureVector{
		vector("2020-21", "a", 1, 0),
		vector("2020-21", "b", 0, 100),
	}

	X, y := Design(vectors, domain.ModelFeatures)
	require.Len(t, X, 2)
	require.Len(t, X[0], len(domain.ModelFeatures))
	assert.Equal(t, []int{1, 0}, y)

	// first model feature is FG3M_diff
	assert.Equal(t, float64(domain.MetricFG3MDiff), X[0][0])
	assert.Equal(t, 100+float64(domain.MetricFG3MDiff), X[1][0])
	assert.Equal(t, 100+float64(domain.MetricDRBPctDiff), X[1][len(domain.ModelFeatures)-1])
}

func TestFeatureNames(t *testing.T) {
	names := FeatureNames(domain.ModelFeatures)
	assert.Len(t, names, 11)
	assert.Equal(t, "FG3M_diff", names[0])
	assert.Equal(t, "DRB%_diff", names[10])
}
