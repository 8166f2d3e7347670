package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/pipeline"
	"nba-matchup-lab/internal/reporting"
)

var (
	evalTrain        []string
	evalTest         []string
	evalIterations   int
	evalLearningRate float64
	evalL2           float64
	evalOutputDir    string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Train and score the logistic win model",
	Long: `Fits a logistic regression on standardised feature vectors of the train seasons,
scores it on the test seasons against the always-home baseline and writes
EVALUATION.md. Seasons without a stored feature table are built first.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringSliceVar(&evalTrain, "train", nil, "train seasons (default from config)")
	evaluateCmd.Flags().StringSliceVar(&evalTest, "test", nil, "test seasons (default from config)")
	evaluateCmd.Flags().IntVar(&evalIterations, "iterations", 0, "gradient descent iterations (default from config)")
	evaluateCmd.Flags().Float64Var(&evalLearningRate, "learning-rate", 0, "gradient descent step (default from config)")
	evaluateCmd.Flags().Float64Var(&evalL2, "l2", -1, "L2 penalty on weights (default from config)")
	evaluateCmd.Flags().StringVar(&evalOutputDir, "output-dir", "", "report directory (default from config)")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts := pipeline.EvaluationOptions{
		TrainSeasons: seasonsOr(evalTrain, cfg.Model.TrainSeasons),
		TestSeasons:  seasonsOr(evalTest, cfg.Model.TestSeasons),
		Iterations:   cfg.Model.Iterations,
		LearningRate: cfg.Model.LearningRate,
		L2:           cfg.Model.L2,
	}
	if evalIterations > 0 {
		opts.Iterations = evalIterations
	}
	if evalLearningRate > 0 {
		opts.LearningRate = evalLearningRate
	}
	if evalL2 >= 0 {
		opts.L2 = evalL2
	}
	outputDir := evalOutputDir
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	seasons := append(append([]string(nil), opts.TrainSeasons...), opts.TestSeasons...)
	if err := ensureBuilt(ctx, st, seasons); err != nil {
		return err
	}

	report, err := pipeline.NewEvaluationPipeline(st.features, outputDir).Run(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reporting.RenderCoefficientTable(out, report.Coefficients)
	ev := report.Evaluation
	fmt.Fprintf(out, "\naccuracy %.4f  baseline %.4f  lift %+.4f  (%d test rows)\n",
		ev.Accuracy, ev.Baseline, ev.Lift(), ev.N)
	return nil
}

// ensureBuilt builds the feature table of every season that has none stored.
func ensureBuilt(ctx context.Context, st *stores, seasons []string) error {
	engine, err := features.NewEngine(cfg.FeatureConfig())
	if err != nil {
		return err
	}
	runner := features.NewRunner(engine, st.games, st.features, st.runs)

	for _, season := range seasons {
		existing, err := st.features.GetBySeason(ctx, season)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		build, err := runner.BuildSeason(ctx, season)
		if err != nil {
			return fmt.Errorf("build %s: %w", season, err)
		}
		logger.Info("built missing season", "season", season, "vectors", len(build.Vectors))
	}
	return nil
}
