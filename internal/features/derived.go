package features

import (
	"nba-matchup-lab/internal/domain"
)

// Possession estimate coefficients.
const (
	PossessionFactor          = 0.96
	FreeThrowPossessionFactor = 0.44
)

// Possessions estimates possessions per game:
// 0.96 * (FGA - OREB + TOV + 0.44 * FTA).
func Possessions(fga, oreb, tov, fta domain.Value) domain.Value {
	return fga.Sub(oreb).Add(tov).Add(fta.Scale(FreeThrowPossessionFactor)).Scale(PossessionFactor)
}

// ComputeDerivedMetrics computes the derived metrics of each matchup from its
// rolling means. epsilon is added to every denominator.
//
// Formulas (H = home, V = visitor):
//   - POS_home, POS_visitor = Possessions per side
//   - AST/TOV_ratio_diff = AST_H/(TOV_H+eps) - AST_V/(TOV_V+eps)
//   - STL%_diff = STL_H/(POS_V+eps) - STL_V/(POS_H+eps)
//   - OREB%_diff = OREB_H/(FGA_V+eps) - OREB_V/(FGA_H+eps)
//   - DRB%_diff = DREB_H/(FGA_V+eps) - DREB_V/(FGA_H+eps)
//   - {stat}_diff = stat_H - stat_V for every stat outside domain.RatioInputStats
//
// Any missing operand makes the metric missing. Rolling inputs are not carried
// into the output. Rows are never dropped here.
func ComputeDerivedMetrics(rows []*domain.MatchupFeatureRecord, epsilon float64) []*domain.DerivedRecord {
	result := make([]*domain.DerivedRecord, 0, len(rows))

	for _, row := range rows {
		h := func(s domain.Stat) domain.Value { return row.Feature(s, domain.SideHome) }
		v := func(s domain.Stat) domain.Value { return row.Feature(s, domain.SideVisitor) }

		d := &domain.DerivedRecord{
			MatchupIdentity: row.MatchupIdentity,
			Label:           row.Label,
		}

		posH := Possessions(h(domain.StatFGA), h(domain.StatOREB), h(domain.StatTOV), h(domain.StatFTA))
		posV := Possessions(v(domain.StatFGA), v(domain.StatOREB), v(domain.StatTOV), v(domain.StatFTA))

		d.Metrics[domain.MetricPOSHome] = posH
		d.Metrics[domain.MetricPOSVisitor] = posV

		d.Metrics[domain.MetricASTTOVRatioDiff] = h(domain.StatAST).DivGuarded(h(domain.StatTOV), epsilon).
			Sub(v(domain.StatAST).DivGuarded(v(domain.StatTOV), epsilon))

		// Steals are normalised by the opponent's possessions
		d.Metrics[domain.MetricSTLPctDiff] = h(domain.StatSTL).DivGuarded(posV, epsilon).
			Sub(v(domain.StatSTL).DivGuarded(posH, epsilon))

		d.Metrics[domain.MetricOREBPctDiff] = h(domain.StatOREB).DivGuarded(v(domain.StatFGA), epsilon).
			Sub(v(domain.StatOREB).DivGuarded(h(domain.StatFGA), epsilon))

		d.Metrics[domain.MetricDRBPctDiff] = h(domain.StatDREB).DivGuarded(v(domain.StatFGA), epsilon).
			Sub(v(domain.StatDREB).DivGuarded(h(domain.StatFGA), epsilon))

		for _, stat := range domain.DiffStats() {
			m, _ := domain.DiffMetric(stat)
			d.Metrics[m] = h(stat).Sub(v(stat))
		}

		result = append(result, d)
	}

	return result
}
