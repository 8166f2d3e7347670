package verification

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/storage"
)

// GameResult contains the divergences found for one game.
type GameResult struct {
	GameID      string
	Divergences []FieldDivergence
}

// SeasonReport contains the verification result of one season.
type SeasonReport struct {
	SeasonID       string
	StoredRows     int
	RebuiltRows    int
	MatchedRows    int
	DivergentRows  int
	MissingGameIDs []string     // rebuilt but not stored
	ExtraGameIDs   []string     // stored but not rebuilt
	Results        []GameResult // divergent games only, by game id
	StoredVersion  string       // data version of the latest build run, if any
	RebuiltVersion string
}

// Match reports whether the stored table equals the rebuilt one.
func (r *SeasonReport) Match() bool {
	return r.DivergentRows == 0 && len(r.MissingGameIDs) == 0 && len(r.ExtraGameIDs) == 0 &&
		(r.StoredVersion == "" || r.StoredVersion == r.RebuiltVersion)
}

// Verifier recomputes feature tables and compares them with stored vectors.
type Verifier struct {
	gameStore    storage.GameRecordStore
	featureStore storage.FeatureVectorStore
	runStore     storage.BuildRunStore
	engine       *features.Engine
}

// NewVerifier creates a new Verifier. runStore may be nil, which skips the
// data version comparison.
func NewVerifier(
	engine *features.Engine,
	gameStore storage.GameRecordStore,
	featureStore storage.FeatureVectorStore,
	runStore storage.BuildRunStore,
) *Verifier {
	return &Verifier{
		gameStore:    gameStore,
		featureStore: featureStore,
		runStore:     runStore,
		engine:       engine,
	}
}

// VerifySeason rebuilds season from its stored game records and compares every
// field of every vector with the stored table.
func (v *Verifier) VerifySeason(ctx context.Context, season string) (*SeasonReport, error) {
	// 1. Load stored inputs and outputs
	records, err := v.gameStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load season %s: %w", season, err)
	}
	stored, err := v.featureStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load feature vectors %s: %w", season, err)
	}

	// 2. Rebuild
	result, err := v.engine.Build(records)
	if err != nil {
		return nil, fmt.Errorf("rebuild season %s: %w", season, err)
	}

	report := &SeasonReport{
		SeasonID:       season,
		StoredRows:     len(stored),
		RebuiltRows:    len(result.Vectors),
		RebuiltVersion: features.DataVersion(result.Vectors),
	}
	if v.runStore != nil {
		run, err := v.runStore.GetLatest(ctx, season)
		switch {
		case err == nil:
			report.StoredVersion = run.DataVersion
		case !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("load build run %s: %w", season, err)
		}
	}

	// 3. Compare by game id
	rebuiltByID := make(map[string]*domain.FeatureVector, len(result.Vectors))
	for _, fv := range result.Vectors {
		rebuiltByID[fv.GameID] = fv
	}
	storedIDs := make(map[string]struct{}, len(stored))

	for _, s := range stored {
		storedIDs[s.GameID] = struct{}{}
		r, ok := rebuiltByID[s.GameID]
		if !ok {
			report.ExtraGameIDs = append(report.ExtraGameIDs, s.GameID)
			continue
		}
		if divs := CompareFeatureVectors(s, r); len(divs) > 0 {
			report.Results = append(report.Results, GameResult{GameID: s.GameID, Divergences: divs})
			report.DivergentRows++
			continue
		}
		report.MatchedRows++
	}
	for _, r := range result.Vectors {
		if _, ok := storedIDs[r.GameID]; !ok {
			report.MissingGameIDs = append(report.MissingGameIDs, r.GameID)
		}
	}

	sort.Strings(report.ExtraGameIDs)
	sort.Strings(report.MissingGameIDs)
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].GameID < report.Results[j].GameID
	})
	return report, nil
}
