// Package model implements the win-probability consumer of feature vectors:
// standardisation followed by logistic regression.
package model

import (
	"errors"
	"fmt"

	"nba-matchup-lab/internal/metrics"
)

var (
	// ErrNotFitted is returned when transforming or predicting before Fit.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrShape is returned for ragged or mismatched matrices.
	ErrShape = errors.New("matrix shape mismatch")
)

// StandardScaler centres each column on its training mean and divides by its
// training population standard deviation. Constant columns are only centred.
type StandardScaler struct {
	Means   []float64
	Stddevs []float64
}

// Fit learns column means and standard deviations from X.
func (s *StandardScaler) Fit(X [][]float64) error {
	cols, err := width(X)
	if err != nil {
		return err
	}

	s.Means = make([]float64, cols)
	s.Stddevs = make([]float64, cols)
	column := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i, row := range X {
			column[i] = row[j]
		}
		s.Means[j] = metrics.Mean(column)
		s.Stddevs[j] = metrics.PopulationStddev(column, s.Means[j])
	}
	return nil
}

// Transform returns a standardised copy of X.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Means == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("%w: row %d has %d columns, scaler has %d", ErrShape, i, len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = v - s.Means[j]
			if s.Stddevs[j] > 0 {
				scaled[j] /= s.Stddevs[j]
			}
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits on X and returns X standardised.
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// width returns the common row length of a non-empty matrix.
func width(X [][]float64) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	cols := len(X[0])
	for i, row := range X {
		if len(row) != cols {
			return 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), cols)
		}
	}
	return cols, nil
}
