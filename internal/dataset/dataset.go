// Package dataset turns feature tables into model design matrices.
package dataset

import (
	"errors"
	"fmt"

	"nba-matchup-lab/internal/domain"
)

// ErrEmptySplit is returned when a train or test split selects no rows.
var ErrEmptySplit = errors.New("split selects no rows")

// Concat joins feature tables row-wise in argument order.
// Rows are not deduplicated across tables.
func Concat(tables ...[]*domain.FeatureVector) []*domain.FeatureVector {
	n := 0
	for _, t := range tables {
		n += len(t)
	}
	out := make([]*domain.FeatureVector, 0, n)
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

// Split partitions vectors by season id, preserving row order.
// A season listed in both sets is rejected.
func Split(vectors []*domain.FeatureVector, trainSeasons, testSeasons []string) (train, test []*domain.FeatureVector, err error) {
	trainSet := make(map[string]bool, len(trainSeasons))
	for _, s := range trainSeasons {
		trainSet[s] = true
	}
	testSet := make(map[string]bool, len(testSeasons))
	for _, s := range testSeasons {
		if trainSet[s] {
			return nil, nil, fmt.Errorf("season %s is in both train and test sets", s)
		}
		testSet[s] = true
	}

	for _, fv := range vectors {
		switch {
		case trainSet[fv.SeasonID]:
			train = append(train, fv)
		case testSet[fv.SeasonID]:
			test = append(test, fv)
		}
	}

	if len(train) == 0 {
		return nil, nil, fmt.Errorf("train %v: %w", trainSeasons, ErrEmptySplit)
	}
	if len(test) == 0 {
		return nil, nil, fmt.Errorf("test %v: %w", testSeasons, ErrEmptySplit)
	}
	return train, test, nil
}

// Design extracts the feature matrix X (one column per metric, in the given
// order) and the label vector y.
func Design(vectors []*domain.FeatureVector, metrics []domain.Metric) (X [][]float64, y []int) {
	X = make([][]float64, len(vectors))
	y = make([]int, len(vectors))
	for i, fv := range vectors {
		row := make([]float64, len(metrics))
		for j, m := range metrics {
			row[j] = fv.Metric(m)
		}
		X[i] = row
		y[i] = fv.Label
	}
	return X, y
}

// FeatureNames returns the output column names of metrics.
func FeatureNames(metrics []domain.Metric) []string {
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = m.String()
	}
	return names
}
