package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"nba-matchup-lab/internal/metrics"
)

// CoefficientRow is one fitted model weight on standardised inputs.
type CoefficientRow struct {
	Feature        string
	Coef           float64
	OddsMultiplier float64 // exp(Coef): odds change per one standard deviation
}

// EvaluationReport describes a trained model and its held-out performance.
type EvaluationReport struct {
	GeneratedAt  time.Time
	TrainSeasons []string
	TestSeasons  []string
	TrainRows    int
	TestRows     int

	Iterations   int
	LearningRate float64
	L2           float64

	Coefficients  []CoefficientRow // sorted by coefficient, descending
	Intercept     float64
	Evaluation    *metrics.Evaluation
	Probabilities *metrics.ProbabilitySummary
}

// CoefficientTable pairs feature names with coefficients, sorted by
// coefficient descending. Ties keep feature order.
func CoefficientTable(names []string, coefs []float64) ([]CoefficientRow, error) {
	if len(names) != len(coefs) {
		return nil, fmt.Errorf("%d feature names for %d coefficients", len(names), len(coefs))
	}
	rows := make([]CoefficientRow, len(names))
	for i := range names {
		rows[i] = CoefficientRow{Feature: names[i], Coef: coefs[i], OddsMultiplier: math.Exp(coefs[i])}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Coef > rows[j].Coef
	})
	return rows, nil
}

// RenderEvaluationMarkdown renders an evaluation report as Markdown.
func RenderEvaluationMarkdown(r *EvaluationReport) string {
	var sb strings.Builder

	sb.WriteString("# Model Evaluation\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Train: %s (%d rows) | Test: %s (%d rows)\n\n",
		strings.Join(r.TrainSeasons, ", "), r.TrainRows, strings.Join(r.TestSeasons, ", "), r.TestRows))
	sb.WriteString(fmt.Sprintf("Logistic regression: %d iterations, learning rate %g, L2 %g\n\n",
		r.Iterations, r.LearningRate, r.L2))

	// Coefficients
	sb.WriteString("## Coefficients\n\n")
	sb.WriteString("| Feature | Coef | Odds Mult per 1 Std |\n")
	sb.WriteString("|---------|------|---------------------|\n")
	for _, c := range r.Coefficients {
		sb.WriteString(fmt.Sprintf("| %s | %+.4f | %.4f |\n", c.Feature, c.Coef, c.OddsMultiplier))
	}
	sb.WriteString(fmt.Sprintf("\nIntercept: %+.4f\n\n", r.Intercept))

	e := r.Evaluation
	if e == nil {
		sb.WriteString("No evaluation available.\n")
		return sb.String()
	}

	// Accuracy
	sb.WriteString("## Accuracy\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Test Rows | %d |\n", e.N))
	sb.WriteString(fmt.Sprintf("| Naive Baseline (home win) | %.4f |\n", e.Baseline))
	sb.WriteString(fmt.Sprintf("| Accuracy | %.4f |\n", e.Accuracy))
	sb.WriteString(fmt.Sprintf("| Lift | %+.4f |\n", e.Lift()))
	if p := r.Probabilities; p != nil {
		sb.WriteString(fmt.Sprintf("| Log Loss | %.4f |\n", p.LogLoss))
		sb.WriteString(fmt.Sprintf("| Brier | %.4f |\n", p.Brier))
		sb.WriteString(fmt.Sprintf("| P(home) P10 / Median / P90 | %.3f / %.3f / %.3f |\n", p.P10, p.Median, p.P90))
	}
	sb.WriteString("\n")

	// Confusion matrix
	sb.WriteString("## Confusion Matrix\n\n")
	sb.WriteString("| Actual \\ Predicted | 0 | 1 |\n")
	sb.WriteString("|--------------------|---|---|\n")
	for actual := 0; actual < 2; actual++ {
		sb.WriteString(fmt.Sprintf("| %d | %d | %d |\n", actual, e.Confusion[actual][0], e.Confusion[actual][1]))
	}
	sb.WriteString("\n")

	// Classification report
	sb.WriteString("## Classification Report\n\n")
	sb.WriteString("| Class | Precision | Recall | F1 | Support |\n")
	sb.WriteString("|-------|-----------|--------|----|---------|\n")
	for _, c := range e.Classes {
		sb.WriteString(fmt.Sprintf("| %d | %.4f | %.4f | %.4f | %d |\n",
			c.Label, c.Precision, c.Recall, c.F1, c.Support))
	}

	return sb.String()
}
