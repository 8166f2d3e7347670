// Package orchestrator provides end-to-end pipeline orchestration.
// It coordinates: ingestion → feature build → sufficiency checks
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/ingestion"
	"nba-matchup-lab/internal/observability"
	"nba-matchup-lab/internal/pipeline"
	"nba-matchup-lab/internal/storage"
)

// DefaultParallelism is the number of seasons built concurrently.
const DefaultParallelism = 4

// Orchestrator coordinates the end-to-end pipeline execution.
// Flow: ingest seasons → build feature tables in parallel → sufficiency checks
type Orchestrator struct {
	// Stores
	gameStore    storage.GameRecordStore
	featureStore storage.FeatureVectorStore
	runStore     storage.BuildRunStore

	// Components
	ingester *ingestion.Manager
	engine   *features.Engine
	checker  *pipeline.SufficiencyChecker

	// Options
	seasons     []string
	parallelism int
	clock       func() time.Time
	logger      *slog.Logger
	verbose     bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	GameStore    storage.GameRecordStore
	FeatureStore storage.FeatureVectorStore
	RunStore     storage.BuildRunStore

	// Ingester fetches and stores seasons in Phase 1. Nil skips ingestion.
	Ingester *ingestion.Manager

	// Feature engine configuration
	Features features.Config

	// Sufficiency thresholds; zero values take the pipeline defaults
	MaxUnpairedRatio float64
	MinLabelCoverage float64

	Seasons     []string
	Parallelism int              // default DefaultParallelism
	Clock       func() time.Time // build run timestamps; default time.Now
	Logger      *slog.Logger
	Verbose     bool
}

// New creates a new Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	engine, err := features.NewEngine(opts.Features)
	if err != nil {
		return nil, err
	}
	for _, s := range opts.Seasons {
		if err := domain.ValidateSeason(s); err != nil {
			return nil, err
		}
	}

	maxUnpaired, minLabel := opts.MaxUnpairedRatio, opts.MinLabelCoverage
	if maxUnpaired <= 0 {
		maxUnpaired = pipeline.DefaultMaxUnpairedRatio
	}
	if minLabel <= 0 {
		minLabel = pipeline.DefaultMinLabelCoverage
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		gameStore:    opts.GameStore,
		featureStore: opts.FeatureStore,
		runStore:     opts.RunStore,
		ingester:     opts.Ingester,
		engine:       engine,
		checker: pipeline.NewSufficiencyChecker(opts.GameStore, opts.RunStore, opts.Features.Window).
			WithThresholds(maxUnpaired, minLabel),
		seasons:     dedupeSorted(opts.Seasons),
		parallelism: parallelism,
		clock:       clock,
		logger:      logger,
		verbose:     opts.Verbose,
	}, nil
}

// SeasonSummary is the outcome of one season.
type SeasonSummary struct {
	SeasonID    string
	Ingested    int  // records ingested in Phase 1
	Reused      bool // an identical build already existed
	Run         *domain.BuildRun
	Sufficiency *pipeline.SufficiencyResult
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	Seasons         []SeasonSummary // sorted by season id
	RecordsIngested int
	VectorsProduced int
	Errors          []string // non-fatal problems, e.g. stale builds
}

// SeasonIDs returns the processed season ids in order.
func (r *RunResult) SeasonIDs() []string {
	ids := make([]string, len(r.Seasons))
	for i, s := range r.Seasons {
		ids[i] = s.SeasonID
	}
	return ids
}

// RecordedSeasonIDs returns the ids of seasons that have a build run, in order.
func (r *RunResult) RecordedSeasonIDs() []string {
	ids := make([]string, 0, len(r.Seasons))
	for _, s := range r.Seasons {
		if s.Run != nil {
			ids = append(ids, s.SeasonID)
		}
	}
	return ids
}

// Sufficiency returns the per-season sufficiency results in season order.
func (r *RunResult) Sufficiency() []*pipeline.SufficiencyResult {
	out := make([]*pipeline.SufficiencyResult, 0, len(r.Seasons))
	for _, s := range r.Seasons {
		if s.Sufficiency != nil {
			out = append(out, s.Sufficiency)
		}
	}
	return out
}

// AllSufficient reports whether every season passed its sufficiency checks.
func (r *RunResult) AllSufficient() bool {
	for _, s := range r.Seasons {
		if s.Sufficiency == nil || !s.Sufficiency.AllPass {
			return false
		}
	}
	return len(r.Seasons) > 0
}

// Run executes the full pipeline.
// Phases:
//  1. Ingest each season (if an ingester is configured)
//  2. Build each season's feature table, in parallel
//  3. Check sufficiency of each built season
//
// A failure in Phase 1 or 2 cancels the batch and returns an error.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "orchestrator.Run",
		trace.WithAttributes(attribute.StringSlice("seasons", o.seasons)))
	defer span.End()

	result := &RunResult{Seasons: make([]SeasonSummary, len(o.seasons))}
	for i, s := range o.seasons {
		result.Seasons[i].SeasonID = s
	}
	if len(o.seasons) == 0 {
		o.log("No seasons to process")
		return result, nil
	}

	// Phase 1: Ingestion
	if o.ingester != nil {
		o.log("Phase 1: Ingesting seasons...", "seasons", len(o.seasons))
		if err := o.timed("ingest", func() error { return o.runIngestion(ctx, result) }); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("phase 1 (ingest) failed: %w", err)
		}
		o.log("  Ingested records", "records", result.RecordsIngested)
	} else {
		o.log("Phase 1: Skipping ingestion (no ingester)")
	}

	// Phase 2: Feature build
	o.log("Phase 2: Building feature tables...", "parallelism", o.parallelism)
	if err := o.timed("build", func() error { return o.runBuilds(ctx, result) }); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("phase 2 (build) failed: %w", err)
	}
	o.log("  Built feature vectors", "vectors", result.VectorsProduced)

	// Phase 3: Sufficiency
	o.log("Phase 3: Checking sufficiency...")
	if err := o.timed("sufficiency", func() error { return o.runSufficiency(ctx, result) }); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("phase 3 (sufficiency) failed: %w", err)
	}

	o.log("Pipeline completed",
		"seasons", len(result.Seasons),
		"records_ingested", result.RecordsIngested,
		"vectors", result.VectorsProduced,
		"all_sufficient", result.AllSufficient(),
		"errors", len(result.Errors))

	return result, nil
}

// runIngestion ingests seasons sequentially; the provider is rate limited.
// Seasons already stored are kept as they are.
func (o *Orchestrator) runIngestion(ctx context.Context, result *RunResult) error {
	for i := range result.Seasons {
		s := &result.Seasons[i]
		n, err := o.ingester.IngestSeason(ctx, s.SeasonID)
		if err != nil {
			// Skip duplicate key errors (already ingested)
			if errors.Is(err, storage.ErrDuplicateKey) {
				o.log("  Season already ingested", "season", s.SeasonID)
				continue
			}
			return fmt.Errorf("ingest season %s: %w", s.SeasonID, err)
		}
		s.Ingested = n
		result.RecordsIngested += n
	}
	return nil
}

// runBuilds builds seasons concurrently. The first failure cancels the rest.
func (o *Orchestrator) runBuilds(ctx context.Context, result *RunResult) error {
	runner := features.NewRunner(o.engine, o.gameStore, o.featureStore, o.runStore).WithClock(o.clock)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for i := range result.Seasons {
		s := &result.Seasons[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			build, err := runner.BuildSeason(gctx, s.SeasonID)
			if err == nil {
				s.Run = build.Run
				mu.Lock()
				result.VectorsProduced += len(build.Vectors)
				mu.Unlock()
				o.log("  Built season", "season", s.SeasonID, "vectors", len(build.Vectors),
					"unpaired", build.Run.UnpairedGames(), "gated", build.Run.GatedRows)
				return nil
			}
			// Skip duplicate key errors (already built)
			if !errors.Is(err, storage.ErrDuplicateKey) {
				return err
			}

			msg, err := o.reuseBuild(gctx, s)
			if err != nil {
				return err
			}
			mu.Lock()
			if s.Run != nil {
				result.VectorsProduced += s.Run.OutputRows
			}
			if msg != "" {
				result.Errors = append(result.Errors, msg)
			}
			mu.Unlock()
			o.log("  Season already built", "season", s.SeasonID, "run_recorded", s.Run != nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Strings(result.Errors)
	return nil
}

// reuseBuild loads the existing build of a season. It returns a message when
// the stored build was made from a different number of game records, or when
// the vectors exist but the run store has no record of the build.
func (o *Orchestrator) reuseBuild(ctx context.Context, s *SeasonSummary) (string, error) {
	s.Reused = true
	run, err := o.runStore.GetLatest(ctx, s.SeasonID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("season %s: feature vectors stored but no build run found", s.SeasonID), nil
	}
	if err != nil {
		return "", fmt.Errorf("load existing build of %s: %w", s.SeasonID, err)
	}
	s.Run = run

	records, err := o.gameStore.GetBySeason(ctx, s.SeasonID)
	if err != nil {
		return "", fmt.Errorf("load season %s: %w", s.SeasonID, err)
	}
	if len(records) != run.InputRecords {
		return fmt.Sprintf("season %s: stored build used %d records, store now has %d",
			s.SeasonID, run.InputRecords, len(records)), nil
	}
	return "", nil
}

// runSufficiency checks every built season. Seasons without a recorded
// build run are left unchecked and count as insufficient.
func (o *Orchestrator) runSufficiency(ctx context.Context, result *RunResult) error {
	for i := range result.Seasons {
		s := &result.Seasons[i]
		if s.Run == nil {
			o.log("  Sufficiency skipped, no build run", "season", s.SeasonID)
			continue
		}
		check, err := o.checker.CheckSeason(ctx, s.SeasonID)
		if err != nil {
			return err
		}
		s.Sufficiency = check
		status := "PASS"
		if !check.AllPass {
			status = "FAIL"
		}
		o.log("  Sufficiency", "season", s.SeasonID, "status", status)
	}
	return nil
}

// timed runs one phase and records its duration and status.
func (o *Orchestrator) timed(phase string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordPipelineRun(phase, status, time.Since(start).Seconds())
	return err
}

func (o *Orchestrator) log(msg string, args ...any) {
	if o.verbose {
		o.logger.Info(msg, append([]any{"component", "orchestrator"}, args...)...)
		return
	}
	o.logger.Debug(msg, append([]any{"component", "orchestrator"}, args...)...)
}

func dedupeSorted(seasons []string) []string {
	seen := make(map[string]struct{}, len(seasons))
	out := make([]string, 0, len(seasons))
	for _, s := range seasons {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
