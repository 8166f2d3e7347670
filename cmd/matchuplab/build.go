package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/ingestion"
	"nba-matchup-lab/internal/observability"
	"nba-matchup-lab/internal/orchestrator"
	"nba-matchup-lab/internal/pipeline"
	"nba-matchup-lab/internal/reporting"
)

var (
	buildSeasons     []string
	buildIngest      bool
	buildMetricsAddr string
	buildOutputDir   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build matchup feature tables",
	Long: `Builds one home-vs-visitor feature table per season from stored game logs,
runs the data sufficiency checks and writes features.csv, features.xlsx and
BUILD_REPORT.md to the output directory.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVar(&buildSeasons, "season", nil, "seasons to build (default from config)")
	buildCmd.Flags().BoolVar(&buildIngest, "ingest", false, "fetch and store missing seasons first")
	buildCmd.Flags().StringVar(&buildMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while building")
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "", "report directory (default from config)")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	seasons := seasonsOr(buildSeasons, cfg.Features.Seasons)
	outputDir := buildOutputDir
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	if addr := firstNonEmpty(buildMetricsAddr, cfg.Metrics.Addr); addr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := observability.Serve(srvCtx, addr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var ingester *ingestion.Manager
	if buildIngest {
		source, closeSource, err := openSource(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeSource()
		ingester = ingestion.NewManager(ingestion.ManagerOptions{
			Source: source,
			Store:  st.games,
			Logger: logger,
		})
	}

	orch, err := orchestrator.New(orchestrator.Options{
		GameStore:        st.games,
		FeatureStore:     st.features,
		RunStore:         st.runs,
		Ingester:         ingester,
		Features:         cfg.FeatureConfig(),
		MaxUnpairedRatio: cfg.Features.MaxUnpairedRatio,
		MinLabelCoverage: cfg.Features.MinLabelCoverage,
		Seasons:          seasons,
		Parallelism:      cfg.Features.Parallelism,
		Logger:           logger,
		Verbose:          verbose,
	})
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	report, err := pipeline.NewReportPipeline(st.runs, st.features, outputDir).
		WithSufficiencyResults(result.Sufficiency()).
		WithIntegrityErrors(result.Errors).
		Run(ctx, result.RecordedSeasonIDs())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reporting.RenderBuildTable(out, report)
	fmt.Fprintf(out, "\n%d vectors from %d ingested records; reports in %s\n",
		result.VectorsProduced, result.RecordsIngested, outputDir)

	if !result.AllSufficient() {
		fmt.Fprintln(out, "WARNING: some seasons failed the sufficiency checks, see BUILD_REPORT.md")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
