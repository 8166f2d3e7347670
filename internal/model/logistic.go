package model

import (
	"fmt"
	"math"
)

// Default training parameters.
const (
	DefaultIterations   = 5000
	DefaultLearningRate = 0.1
)

// LogisticRegression is a binary classifier trained by fixed-iteration batch
// gradient descent on the mean log loss, starting from all-zero weights.
// Identical inputs always produce identical weights.
type LogisticRegression struct {
	Iterations   int
	LearningRate float64
	L2           float64 // ridge penalty on weights, not on the intercept

	Weights   []float64
	Intercept float64
}

// NewLogisticRegression creates an unfitted model. Non-positive arguments take defaults.
func NewLogisticRegression(iterations int, learningRate, l2 float64) *LogisticRegression {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &LogisticRegression{Iterations: iterations, LearningRate: learningRate, L2: math.Max(l2, 0)}
}

// Fit trains on X (rows of features) and binary labels y.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	cols, err := width(X)
	if err != nil {
		return err
	}
	if len(y) != len(X) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(X), len(y))
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label %d at row %d is not binary", label, i)
		}
	}

	n := float64(len(X))
	w := make([]float64, cols)
	b := 0.0
	grad := make([]float64, cols)

	for iter := 0; iter < m.Iterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0

		for i, row := range X {
			residual := sigmoid(dot(w, row)+b) - float64(y[i])
			for j, v := range row {
				grad[j] += residual * v
			}
			gradB += residual
		}

		for j := range w {
			w[j] -= m.LearningRate * (grad[j]/n + m.L2*w[j])
		}
		b -= m.LearningRate * gradB / n
	}

	m.Weights = w
	m.Intercept = b
	return nil
}

// PredictProba returns P(label = 1) for each row.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if m.Weights == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Weights) {
			return nil, fmt.Errorf("%w: row %d has %d columns, model has %d", ErrShape, i, len(row), len(m.Weights))
		}
		out[i] = sigmoid(dot(m.Weights, row) + m.Intercept)
	}
	return out, nil
}

// Predict returns 1 where P(label = 1) >= 0.5, else 0.
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// Coefficients returns a copy of the fitted weights.
func (m *LogisticRegression) Coefficients() []float64 {
	return append([]float64(nil), m.Weights...)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
