package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-matchup-lab/internal/dataset"
	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/storage/memory"
)

func TestEvaluationPipeline_Run(t *testing.T) {
	ctx := context.Background()
	games := memory.NewGameRecordStore()
	vectors := memory.NewFeatureVectorStore()
	runs := memory.NewBuildRunStore()

	engine, err := features.NewEngine(features.DefaultConfig())
	require.NoError(t, err)
	runner := features.NewRunner(engine, games, vectors, runs)

	opts := FixtureOptions{Teams: 10, Rounds: 4}
	for _, season := range []string{"2020-21", "2021-22", "2023-24"} {
		_, err := LoadFixtureSeason(ctx, games, season, opts)
		require.NoError(t, err)
		_, err = runner.BuildSeason(ctx, season)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	p := NewEvaluationPipeline(vectors, dir).WithClock(func() time.Time { return fixedTime })
	evalOpts := EvaluationOptions{
		TrainSeasons: []string{"2020-21", "2021-22"},
		TestSeasons:  []string{"2023-24"},
		Iterations:   500,
		LearningRate: 0.1,
	}
	report, err := p.Run(ctx, evalOpts)
	require.NoError(t, err)

	// 10 teams, 4 round robins: 180 games, the 5 day-0 games are gated
	assert.Equal(t, 2*175, report.TrainRows)
	assert.Equal(t, 175, report.TestRows)
	assert.Equal(t, 175, report.Evaluation.N)
	assert.Len(t, report.Coefficients, 11)
	for i := 1; i < len(report.Coefficients); i++ {
		assert.GreaterOrEqual(t, report.Coefficients[i-1].Coef, report.Coefficients[i].Coef)
	}
	names := make([]string, len(report.Coefficients))
	for i, c := range report.Coefficients {
		names[i] = c.Feature
	}
	assert.ElementsMatch(t, dataset.FeatureNames(domain.ModelFeatures), names)
	assert.GreaterOrEqual(t, report.Evaluation.Accuracy, 0.0)
	assert.LessOrEqual(t, report.Evaluation.Accuracy, 1.0)

	md, err := os.ReadFile(filepath.Join(dir, EvaluationReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Model Evaluation")
	assert.Contains(t, string(md), "Train: 2020-21, 2021-22 (350 rows) | Test: 2023-24 (175 rows)")

	// training is deterministic
	again, err := NewEvaluationPipeline(vectors, "").Run(ctx, evalOpts)
	require.NoError(t, err)
	assert.Equal(t, report.Coefficients, again.Coefficients)
	assert.Equal(t, report.Evaluation, again.Evaluation)
}

func TestEvaluationPipeline_EmptySplit(t *testing.T) {
	_, err := NewEvaluationPipeline(memory.NewFeatureVectorStore(), "").Run(context.Background(), EvaluationOptions{
		TrainSeasons: []string{"2020-21"},
		TestSeasons:  []string{"2023-24"},
	})
	assert.ErrorIs(t, err, dataset.ErrEmptySplit)
}
