package domain

// DerivedRecord is a matchup with its derived metrics, before the completeness gate.
type DerivedRecord struct {
	MatchupIdentity
	Label   Value
	Metrics [NumMetrics]Value
}

// Complete reports whether the label and every metric are present.
func (d *DerivedRecord) Complete() bool {
	if !d.Label.Valid() {
		return false
	}
	for _, v := range d.Metrics {
		if !v.Valid() {
			return false
		}
	}
	return true
}

// MetricSet holds one value per derived metric, indexed by Metric.
type MetricSet [NumMetrics]float64

// FeatureVector is a complete model input row for one game.
type FeatureVector struct {
	MatchupIdentity
	Label   int // 1 home win, 0 home loss
	Metrics MetricSet
}

// Metric returns the value of m.
func (fv *FeatureVector) Metric(m Metric) float64 {
	return fv.Metrics[m]
}
