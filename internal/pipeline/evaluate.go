package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nba-matchup-lab/internal/dataset"
	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/metrics"
	"nba-matchup-lab/internal/model"
	"nba-matchup-lab/internal/reporting"
	"nba-matchup-lab/internal/storage"
)

// EvaluationReportFile is the Markdown evaluation written by EvaluationPipeline.
const EvaluationReportFile = "EVALUATION.md"

// EvaluationOptions selects the seasons and training parameters.
type EvaluationOptions struct {
	TrainSeasons []string
	TestSeasons  []string
	Iterations   int
	LearningRate float64
	L2           float64
}

// EvaluationPipeline trains the logistic model on stored feature vectors of
// the train seasons and scores it on the test seasons.
type EvaluationPipeline struct {
	featureStore storage.FeatureVectorStore
	outputDir    string // empty skips writing EVALUATION.md
	clock        func() time.Time
}

// NewEvaluationPipeline creates a new evaluation pipeline.
func NewEvaluationPipeline(featureStore storage.FeatureVectorStore, outputDir string) *EvaluationPipeline {
	return &EvaluationPipeline{
		featureStore: featureStore,
		outputDir:    outputDir,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *EvaluationPipeline) WithClock(clock func() time.Time) *EvaluationPipeline {
	p.clock = clock
	return p
}

// Run executes:
//  1. Load train and test vectors
//  2. Standardise on train statistics
//  3. Fit logistic regression on train
//  4. Evaluate on test against the home-win baseline
//  5. Write EVALUATION.md
func (p *EvaluationPipeline) Run(ctx context.Context, opts EvaluationOptions) (*reporting.EvaluationReport, error) {
	// 1. Load
	seasons := append(append([]string(nil), opts.TrainSeasons...), opts.TestSeasons...)
	vectors, err := p.featureStore.GetBySeasons(ctx, seasons)
	if err != nil {
		return nil, fmt.Errorf("load feature vectors: %w", err)
	}
	train, test, err := dataset.Split(vectors, opts.TrainSeasons, opts.TestSeasons)
	if err != nil {
		return nil, err
	}
	Xtrain, ytrain := dataset.Design(train, domain.ModelFeatures)
	Xtest, ytest := dataset.Design(test, domain.ModelFeatures)

	// 2. Standardise
	var scaler model.StandardScaler
	Xtrain, err = scaler.FitTransform(Xtrain)
	if err != nil {
		return nil, fmt.Errorf("scale train: %w", err)
	}
	Xtest, err = scaler.Transform(Xtest)
	if err != nil {
		return nil, fmt.Errorf("scale test: %w", err)
	}

	// 3. Fit
	lr := model.NewLogisticRegression(opts.Iterations, opts.LearningRate, opts.L2)
	if err := lr.Fit(Xtrain, ytrain); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	// 4. Evaluate
	proba, err := lr.PredictProba(Xtest)
	if err != nil {
		return nil, err
	}
	pred, err := lr.Predict(Xtest)
	if err != nil {
		return nil, err
	}
	eval, err := metrics.Evaluate(ytest, pred)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	probs, err := metrics.SummarizeProbabilities(ytest, proba)
	if err != nil {
		return nil, fmt.Errorf("summarize probabilities: %w", err)
	}
	coefs, err := reporting.CoefficientTable(dataset.FeatureNames(domain.ModelFeatures), lr.Coefficients())
	if err != nil {
		return nil, err
	}

	report := &reporting.EvaluationReport{
		GeneratedAt:   p.clock(),
		TrainSeasons:  opts.TrainSeasons,
		TestSeasons:   opts.TestSeasons,
		TrainRows:     len(train),
		TestRows:      len(test),
		Iterations:    lr.Iterations,
		LearningRate:  lr.LearningRate,
		L2:            lr.L2,
		Coefficients:  coefs,
		Intercept:     lr.Intercept,
		Evaluation:    eval,
		Probabilities: probs,
	}

	// 5. Write
	if p.outputDir != "" {
		if err := os.MkdirAll(p.outputDir, 0755); err != nil {
			return nil, err
		}
		path := filepath.Join(p.outputDir, EvaluationReportFile)
		if err := os.WriteFile(path, []byte(reporting.RenderEvaluationMarkdown(report)), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return report, nil
}
