package features

import (
	"fmt"
	"sort"

	"nba-matchup-lab/internal/domain"
)

// PairingResult holds joined matchups and the games that could not be paired.
type PairingResult struct {
	Pairs           []*domain.PairedRecord // ordered by (game_date, game_id)
	UnpairedGameIDs []string               // game ids with only one perspective, sorted
}

// PairHomeVisitor splits records by matchup descriptor into home ("vs.") and
// visitor ("@") perspectives and inner-joins them on game id.
// Season id and result marker are taken from the home side; the marker is
// mapped to a binary label.
//
// Game ids present on one side only are dropped and listed in UnpairedGameIDs.
// A record with an unclassifiable descriptor, or a second record for the same
// (game id, side), returns ErrSchemaMismatch.
func PairHomeVisitor(records []*domain.RollingStatRecord) (*PairingResult, error) {
	home := make(map[string]*domain.RollingStatRecord)
	visitor := make(map[string]*domain.RollingStatRecord)

	for _, r := range records {
		g := r.Game
		side, ok := domain.ClassifyMatchup(g.Matchup)
		if !ok {
			return nil, fmt.Errorf("%w: game %s team %d: unclassifiable matchup %q",
				domain.ErrSchemaMismatch, g.GameID, g.TeamID, g.Matchup)
		}

		target := home
		if side == domain.SideVisitor {
			target = visitor
		}
		if existing, dup := target[g.GameID]; dup {
			return nil, fmt.Errorf("%w: game %s has two %s records (teams %d and %d)",
				domain.ErrSchemaMismatch, g.GameID, side, existing.Game.TeamID, g.TeamID)
		}
		target[g.GameID] = r
	}

	result := &PairingResult{}

	for id, h := range home {
		v, ok := visitor[id]
		if !ok {
			result.UnpairedGameIDs = append(result.UnpairedGameIDs, id)
			continue
		}
		result.Pairs = append(result.Pairs, &domain.PairedRecord{
			GameID:   id,
			SeasonID: h.Game.SeasonID,
			WL:       h.Game.WL,
			Label:    LabelFromResult(h.Game.WL),
			Home:     h,
			Visitor:  v,
		})
	}
	for id := range visitor {
		if _, ok := home[id]; !ok {
			result.UnpairedGameIDs = append(result.UnpairedGameIDs, id)
		}
	}

	sort.Slice(result.Pairs, func(i, j int) bool {
		a, b := result.Pairs[i], result.Pairs[j]
		if !a.Home.Game.GameDate.Equal(b.Home.Game.GameDate) {
			return a.Home.Game.GameDate.Before(b.Home.Game.GameDate)
		}
		return a.GameID < b.GameID
	})
	sort.Strings(result.UnpairedGameIDs)

	return result, nil
}

// LabelFromResult maps the home result marker to the binary label:
// "W" -> 1, "L" -> 0, anything else -> missing.
func LabelFromResult(wl string) domain.Value {
	switch wl {
	case domain.ResultWin:
		return domain.Some(1)
	case domain.ResultLoss:
		return domain.Some(0)
	default:
		return domain.Missing()
	}
}
