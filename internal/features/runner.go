package features

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/idhash"
	"nba-matchup-lab/internal/observability"
	"nba-matchup-lab/internal/storage"
)

// SeasonBuild is the persisted outcome of building one season.
type SeasonBuild struct {
	Run     *domain.BuildRun
	Vectors []*domain.FeatureVector
}

// Runner loads a season's game records, builds its feature table and persists
// the vectors and the build run.
type Runner struct {
	engine       *Engine
	gameStore    storage.GameRecordStore
	featureStore storage.FeatureVectorStore
	runStore     storage.BuildRunStore
	clock        func() time.Time
}

// NewRunner creates a new feature runner.
func NewRunner(
	engine *Engine,
	gameStore storage.GameRecordStore,
	featureStore storage.FeatureVectorStore,
	runStore storage.BuildRunStore,
) *Runner {
	return &Runner{
		engine:       engine,
		gameStore:    gameStore,
		featureStore: featureStore,
		runStore:     runStore,
		clock:        time.Now,
	}
}

// WithClock overrides the clock used for BuildRun.CreatedAt.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// BuildSeason processes a single season.
// Steps:
//  1. Load game records from the game store
//  2. Run the engine (rolling -> pairing -> select -> derive -> gate)
//  3. Store feature vectors
//  4. Store the build run with counts, unpaired game ids and data version
//
// Rebuilding unchanged data yields the same run id and returns storage.ErrDuplicateKey.
func (r *Runner) BuildSeason(ctx context.Context, season string) (*SeasonBuild, error) {
	ctx, span := observability.Tracer().Start(ctx, "features.BuildSeason",
		trace.WithAttributes(attribute.String("season", season)))
	defer span.End()

	build, err := r.buildSeason(ctx, span, season)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return build, nil
}

func (r *Runner) buildSeason(ctx context.Context, span trace.Span, season string) (*SeasonBuild, error) {
	// 1. Load raw records
	records, err := r.gameStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load season %s: %w", season, err)
	}

	// 2. Build
	engine := (&Engine{cfg: r.engine.cfg}).WithObserver(func(stage string, d time.Duration) {
		observability.RecordStage(stage, d.Seconds())
		span.AddEvent(stage, trace.WithAttributes(attribute.Float64("duration_seconds", d.Seconds())))
	})
	result, err := engine.Build(records)
	if err != nil {
		return nil, fmt.Errorf("build season %s: %w", season, err)
	}

	cfg := engine.cfg
	version := DataVersion(result.Vectors)
	now := r.clock().UTC()
	run := &domain.BuildRun{
		RunID:           idhash.ComputeBuildRunID(season, cfg.Window, cfg.Epsilon, version),
		SeasonID:        season,
		Window:          cfg.Window,
		Epsilon:         cfg.Epsilon,
		InputRecords:    result.InputRecords,
		PairedGames:     result.PairedGames,
		UnpairedGameIDs: result.UnpairedGameIDs,
		GatedRows:       result.GatedRows,
		OutputRows:      len(result.Vectors),
		DataVersion:     version,
		CreatedAt:       now,
	}

	// 3. Store vectors
	if err := r.featureStore.InsertBulk(ctx, result.Vectors); err != nil {
		return nil, fmt.Errorf("store feature vectors for %s: %w", season, err)
	}

	// 4. Store run
	if err := r.runStore.Insert(ctx, run); err != nil {
		return nil, fmt.Errorf("store build run for %s: %w", season, err)
	}

	span.SetAttributes(
		attribute.Int("input_records", run.InputRecords),
		attribute.Int("paired_games", run.PairedGames),
		attribute.Int("unpaired_games", run.UnpairedGames()),
		attribute.Int("gated_rows", run.GatedRows),
		attribute.Int("output_rows", run.OutputRows),
	)
	observability.RecordSeasonBuild(season, run.PairedGames, run.UnpairedGames(), run.GatedRows, run.OutputRows, now.Unix())

	return &SeasonBuild{Run: run, Vectors: result.Vectors}, nil
}
