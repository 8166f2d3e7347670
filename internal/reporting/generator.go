package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/metrics"
	"nba-matchup-lab/internal/storage"
)

// Generator produces build reports from stored build runs and feature vectors.
type Generator struct {
	runStore     storage.BuildRunStore
	featureStore storage.FeatureVectorStore
	now          func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.BuildRunStore, featureStore storage.FeatureVectorStore) *Generator {
	return &Generator{
		runStore:     runStore,
		featureStore: featureStore,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a build report covering seasons.
// Each season must have at least one build run.
func (g *Generator) Generate(ctx context.Context, seasons []string) (*BuildReport, error) {
	ordered := append([]string(nil), seasons...)
	sort.Strings(ordered)

	report := &BuildReport{
		GeneratedAt: g.now(),
		Seasons:     make([]SeasonSection, 0, len(ordered)),
	}

	for i, season := range ordered {
		run, err := g.runStore.GetLatest(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("get build run %s: %w", season, err)
		}
		vectors, err := g.featureStore.GetBySeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("get feature vectors %s: %w", season, err)
		}

		// window and epsilon are reported from the first season; the
		// orchestrator builds every season with the same engine config
		if i == 0 {
			report.Window = run.Window
			report.Epsilon = run.Epsilon
		}

		labels := make([]float64, len(vectors))
		for j, fv := range vectors {
			labels[j] = float64(fv.Label)
		}

		report.Seasons = append(report.Seasons, SeasonSection{
			SeasonID:        season,
			RunID:           run.RunID,
			InputRecords:    run.InputRecords,
			PairedGames:     run.PairedGames,
			UnpairedGames:   run.UnpairedGames(),
			GatedRows:       run.GatedRows,
			OutputRows:      run.OutputRows,
			HomeWinRate:     metrics.Mean(labels),
			UnpairedGameIDs: append([]string(nil), run.UnpairedGameIDs...),
			DataVersion:     run.DataVersion,
			BuiltAt:         run.CreatedAt,
		})
		report.TotalRows += run.OutputRows
	}

	all, err := g.featureStore.GetBySeasons(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("get feature vectors: %w", err)
	}
	report.DataVersion = features.DataVersion(all)

	return report, nil
}
