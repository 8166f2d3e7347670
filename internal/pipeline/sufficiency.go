package pipeline

import (
	"context"
	"fmt"
	"sort"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/storage"
)

// Default sufficiency thresholds.
const (
	DefaultMaxUnpairedRatio = 0.01
	DefaultMinLabelCoverage = 0.99
)

// SufficiencyCheck represents one data sufficiency criterion.
type SufficiencyCheck struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// SufficiencyResult contains the checks for one season.
type SufficiencyResult struct {
	SeasonID string
	Checks   []SufficiencyCheck
	AllPass  bool
	Errors   []string // data integrity details, e.g. teams short of history
}

// SufficiencyChecker validates that a built season is usable as model input.
type SufficiencyChecker struct {
	gameStore        storage.GameRecordStore
	runStore         storage.BuildRunStore
	window           int
	maxUnpairedRatio float64
	minLabelCoverage float64
}

// NewSufficiencyChecker creates a new sufficiency checker with default thresholds.
func NewSufficiencyChecker(
	gameStore storage.GameRecordStore,
	runStore storage.BuildRunStore,
	window int,
) *SufficiencyChecker {
	return &SufficiencyChecker{
		gameStore:        gameStore,
		runStore:         runStore,
		window:           window,
		maxUnpairedRatio: DefaultMaxUnpairedRatio,
		minLabelCoverage: DefaultMinLabelCoverage,
	}
}

// WithThresholds overrides the unpaired ratio and label coverage thresholds.
func (c *SufficiencyChecker) WithThresholds(maxUnpairedRatio, minLabelCoverage float64) *SufficiencyChecker {
	c.maxUnpairedRatio = maxUnpairedRatio
	c.minLabelCoverage = minLabelCoverage
	return c
}

// CheckSeason performs the four sufficiency checks against the latest build run
// of season and its stored game records.
func (c *SufficiencyChecker) CheckSeason(ctx context.Context, season string) (*SufficiencyResult, error) {
	run, err := c.runStore.GetLatest(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get build run for %s: %w", season, err)
	}
	records, err := c.gameStore.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get game records for %s: %w", season, err)
	}

	result := &SufficiencyResult{
		SeasonID: season,
		Checks:   make([]SufficiencyCheck, 0, 4),
		AllPass:  true,
		Errors:   []string{},
	}
	add := func(check SufficiencyCheck, errs []string) {
		result.Checks = append(result.Checks, check)
		if !check.Pass {
			result.AllPass = false
			result.Errors = append(result.Errors, errs...)
		}
	}

	// Check 1: the season produced feature vectors
	add(c.checkOutputRows(run), nil)

	// Check 2: few games lost to the join
	add(c.checkUnpairedRatio(run), nil)

	// Check 3: every team has enough history to fill a window
	add(c.checkTeamHistory(records))

	// Check 4: paired games carry a usable result
	add(c.checkLabelCoverage(records), nil)

	return result, nil
}

// checkOutputRows: feature vectors > 0.
func (c *SufficiencyChecker) checkOutputRows(run *domain.BuildRun) SufficiencyCheck {
	return SufficiencyCheck{
		Name:      "Feature vectors produced",
		Threshold: "> 0",
		Actual:    fmt.Sprintf("%d", run.OutputRows),
		Pass:      run.OutputRows > 0,
	}
}

// checkUnpairedRatio: unpaired / (paired + unpaired) <= threshold.
func (c *SufficiencyChecker) checkUnpairedRatio(run *domain.BuildRun) SufficiencyCheck {
	total := run.PairedGames + run.UnpairedGames()
	ratio := 0.0
	if total > 0 {
		ratio = float64(run.UnpairedGames()) / float64(total)
	}
	return SufficiencyCheck{
		Name:      "Unpaired game ratio",
		Threshold: fmt.Sprintf("<= %.2f%%", c.maxUnpairedRatio*100),
		Actual:    fmt.Sprintf("%.2f%% (%d of %d)", ratio*100, run.UnpairedGames(), total),
		Pass:      ratio <= c.maxUnpairedRatio,
	}
}

// checkTeamHistory: every team has at least window+1 games, so that at least one
// of its games sees a full window.
func (c *SufficiencyChecker) checkTeamHistory(records []*domain.GameRecord) (SufficiencyCheck, []string) {
	need := c.window + 1
	counts := make(map[int64]int)
	abbr := make(map[int64]string)
	for _, r := range records {
		counts[r.TeamID]++
		abbr[r.TeamID] = r.TeamAbbreviation
	}

	teams := make([]int64, 0, len(counts))
	for id := range counts {
		teams = append(teams, id)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i] < teams[j] })

	var errs []string
	minGames := 0
	for i, id := range teams {
		n := counts[id]
		if i == 0 || n < minGames {
			minGames = n
		}
		if n < need {
			errs = append(errs, fmt.Sprintf("team %d (%s) has %d games, need %d", id, abbr[id], n, need))
		}
	}

	return SufficiencyCheck{
		Name:      "Games per team",
		Threshold: fmt.Sprintf(">= %d", need),
		Actual:    fmt.Sprintf("min %d over %d teams", minGames, len(teams)),
		Pass:      len(teams) > 0 && len(errs) == 0,
	}, errs
}

// checkLabelCoverage: share of paired games whose home result is W or L.
func (c *SufficiencyChecker) checkLabelCoverage(records []*domain.GameRecord) SufficiencyCheck {
	type sides struct {
		home, visitor bool
		homeWL        string
	}
	games := make(map[string]*sides)
	for _, r := range records {
		side, ok := domain.ClassifyMatchup(r.Matchup)
		if !ok {
			continue
		}
		g := games[r.GameID]
		if g == nil {
			g = &sides{}
			games[r.GameID] = g
		}
		if side == domain.SideHome {
			g.home = true
			g.homeWL = r.WL
		} else {
			g.visitor = true
		}
	}

	paired, labelled := 0, 0
	for _, g := range games {
		if !g.home || !g.visitor {
			continue
		}
		paired++
		if g.homeWL == domain.ResultWin || g.homeWL == domain.ResultLoss {
			labelled++
		}
	}

	coverage := 0.0
	if paired > 0 {
		coverage = float64(labelled) / float64(paired)
	}
	return SufficiencyCheck{
		Name:      "Label coverage",
		Threshold: fmt.Sprintf(">= %.0f%%", c.minLabelCoverage*100),
		Actual:    fmt.Sprintf("%.2f%% (%d of %d)", coverage*100, labelled, paired),
		Pass:      paired > 0 && coverage >= c.minLabelCoverage,
	}
}
