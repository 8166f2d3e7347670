package features

import (
	"nba-matchup-lab/internal/domain"
)

// SelectFeatures projects paired records onto the identifying fields (home
// perspective for game id, date and matchup descriptor) plus both sides' rolling
// means for window. Rolling values computed for other windows are not carried.
func SelectFeatures(pairs []*domain.PairedRecord, window int) []*domain.MatchupFeatureRecord {
	result := make([]*domain.MatchupFeatureRecord, 0, len(pairs))

	for _, p := range pairs {
		h, v := p.Home.Game, p.Visitor.Game

		row := &domain.MatchupFeatureRecord{
			MatchupIdentity: domain.MatchupIdentity{
				GameID:                  p.GameID,
				GameDate:                h.GameDate,
				Matchup:                 h.Matchup,
				SeasonID:                p.SeasonID,
				HomeTeamID:              h.TeamID,
				VisitorTeamID:           v.TeamID,
				HomeTeamAbbreviation:    h.TeamAbbreviation,
				VisitorTeamAbbreviation: v.TeamAbbreviation,
			},
			Label:    p.Label,
			Window:   window,
			Features: make(map[domain.FeatureKey]domain.Value, 2*domain.NumStats),
		}

		for _, side := range domain.Sides {
			src := p.Home
			if side == domain.SideVisitor {
				src = p.Visitor
			}
			for _, stat := range domain.AllStats {
				key := domain.RollingKey{Stat: stat, Window: window}
				val, ok := src.Rolling[key]
				if !ok {
					continue
				}
				row.Features[domain.FeatureKey{Stat: stat, Window: window, Side: side}] = val
			}
		}

		result = append(result, row)
	}

	return result
}
