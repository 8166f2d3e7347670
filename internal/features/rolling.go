package features

import (
	"nba-matchup-lab/internal/domain"
)

// ComputeRollingFeatures extends every record with the trailing mean of each tracked
// statistic over at most window strictly prior games of the same team.
// Records are copied and sorted by (team_id, game_date, game_id) before the
// shift, so the current game's own value never enters its rolling mean.
//
// Rules:
//   - first game of a team: every rolling value is missing
//   - fewer than window prior games: mean over the games available
//   - a prior game with a missing raw value occupies a window slot but adds nothing;
//     if no game in the window has a value the rolling value is missing
//
// This stage computes only; it never drops rows. Non-positive windows use DefaultWindow.
func ComputeRollingFeatures(records []*domain.GameRecord, window int) []*domain.RollingStatRecord {
	if len(records) == 0 {
		return nil
	}
	if window < 1 {
		window = DefaultWindow
	}

	sorted := make([]*domain.GameRecord, len(records))
	copy(sorted, records)
	domain.SortGameRecords(sorted)

	result := make([]*domain.RollingStatRecord, len(sorted))

	// Prior games per team, in date order
	history := make(map[int64][]*domain.GameRecord)

	for i, g := range sorted {
		prior := history[g.TeamID]

		start := len(prior) - window
		if start < 0 {
			start = 0
		}
		recent := prior[start:]

		rolling := make(map[domain.RollingKey]domain.Value, domain.NumStats)
		for _, stat := range domain.AllStats {
			rolling[domain.RollingKey{Stat: stat, Window: window}] = trailingMean(recent, stat)
		}

		result[i] = &domain.RollingStatRecord{
			Game:    g.Clone(),
			Rolling: rolling,
		}

		history[g.TeamID] = append(prior, g)
	}

	return result
}

func trailingMean(games []*domain.GameRecord, stat domain.Stat) domain.Value {
	var sum float64
	n := 0
	for _, g := range games {
		if v, ok := g.Stat(stat).Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return domain.Missing()
	}
	return domain.Some(sum / float64(n))
}
