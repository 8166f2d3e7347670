package features

import (
	"nba-matchup-lab/internal/domain"
)

// ApplyCompletenessGate keeps rows whose label and every derived metric are present
// and converts them to feature vectors. It returns the vectors, in input order, and
// the number of rows dropped. This is the only stage that discards rows for
// missing data and must run after every derived computation.
func ApplyCompletenessGate(rows []*domain.DerivedRecord) ([]*domain.FeatureVector, int) {
	vectors := make([]*domain.FeatureVector, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		if !row.Complete() {
			dropped++
			continue
		}

		fv := &domain.FeatureVector{
			MatchupIdentity: row.MatchupIdentity,
		}
		if label, _ := row.Label.Get(); label == 1 {
			fv.Label = 1
		}
		for i, v := range row.Metrics {
			fv.Metrics[i], _ = v.Get()
		}
		vectors = append(vectors, fv)
	}

	return vectors, dropped
}
