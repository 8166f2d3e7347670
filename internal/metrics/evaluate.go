// Package metrics scores binary predictions of home wins.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmpty is returned when there is nothing to evaluate.
	ErrEmpty = errors.New("no observations to evaluate")

	// ErrLengthMismatch is returned when truth and predictions differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidLabel is returned for labels other than 0 and 1.
	ErrInvalidLabel = errors.New("label must be 0 or 1")
)

// ClassReport holds per-class precision and recall.
type ClassReport struct {
	Label     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation summarises predictions against truth.
type Evaluation struct {
	N        int
	Accuracy float64
	// Baseline is the accuracy of always predicting a home win, i.e. the mean label.
	Baseline float64
	// Confusion[actual][predicted].
	Confusion [2][2]int
	Classes   [2]ClassReport
}

// Lift returns accuracy minus the home-win baseline.
func (e *Evaluation) Lift() float64 {
	return e.Accuracy - e.Baseline
}

// Evaluate compares predicted labels with true labels.
func Evaluate(yTrue, yPred []int) (*Evaluation, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, ErrEmpty
	}

	e := &Evaluation{N: len(yTrue)}
	correct, positives := 0, 0
	for i := range yTrue {
		a, p := yTrue[i], yPred[i]
		if (a != 0 && a != 1) || (p != 0 && p != 1) {
			return nil, fmt.Errorf("%w: row %d has (%d, %d)", ErrInvalidLabel, i, a, p)
		}
		e.Confusion[a][p]++
		if a == p {
			correct++
		}
		positives += a
	}
	e.Accuracy = float64(correct) / float64(e.N)
	e.Baseline = float64(positives) / float64(e.N)

	for c := 0; c < 2; c++ {
		tp := e.Confusion[c][c]
		predicted := e.Confusion[0][c] + e.Confusion[1][c]
		actual := e.Confusion[c][0] + e.Confusion[c][1]
		r := ClassReport{Label: c, Support: actual}
		if predicted > 0 {
			r.Precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			r.Recall = float64(tp) / float64(actual)
		}
		if r.Precision+r.Recall > 0 {
			r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		e.Classes[c] = r
	}
	return e, nil
}

// ProbabilitySummary describes predicted home-win probabilities.
type ProbabilitySummary struct {
	LogLoss float64
	Brier   float64
	P10     float64
	Median  float64
	P90     float64
}

// SummarizeProbabilities scores probabilities against labels. Probabilities are
// clipped to [1e-15, 1-1e-15] for the log loss.
func SummarizeProbabilities(yTrue []int, proba []float64) (*ProbabilitySummary, error) {
	if len(yTrue) != len(proba) {
		return nil, fmt.Errorf("%w: %d labels, %d probabilities", ErrLengthMismatch, len(yTrue), len(proba))
	}
	if len(yTrue) == 0 {
		return nil, ErrEmpty
	}

	const clip = 1e-15
	var logLoss, brier float64
	for i, p := range proba {
		y := float64(yTrue[i])
		q := math.Min(math.Max(p, clip), 1-clip)
		logLoss -= y*math.Log(q) + (1-y)*math.Log(1-q)
		brier += (p - y) * (p - y)
	}
	n := float64(len(proba))

	sorted := append([]float64(nil), proba...)
	sort.Float64s(sorted)

	return &ProbabilitySummary{
		LogLoss: logLoss / n,
		Brier:   brier / n,
		P10:     Percentile(sorted, 0.10),
		Median:  Percentile(sorted, 0.50),
		P90:     Percentile(sorted, 0.90),
	}, nil
}
