package domain

import "fmt"

// Metric identifies a derived feature of a matchup.
type Metric uint8

// Derived metrics, in output column order.
const (
	MetricPOSHome Metric = iota
	MetricPOSVisitor
	MetricASTTOVRatioDiff
	MetricSTLPctDiff
	MetricOREBPctDiff
	MetricDRBPctDiff
	MetricPTSDiff
	MetricFGMDiff
	MetricFG3MDiff
	MetricFGADiff
	MetricFTADiff
	MetricBLKDiff
	MetricFGPctDiff
	MetricFG3PctDiff
	MetricFTPctDiff

	numMetrics
)

// NumMetrics is the number of derived metrics.
const NumMetrics = int(numMetrics)

var metricNames = [NumMetrics]string{
	"POS_home", "POS_visitor",
	"AST/TOV_ratio_diff", "STL%_diff", "OREB%_diff", "DRB%_diff",
	"PTS_diff", "FGM_diff", "FG3M_diff", "FGA_diff", "FTA_diff",
	"BLK_diff", "FG_PCT_diff", "FG3_PCT_diff", "FT_PCT_diff",
}

var metricColumns = [NumMetrics]string{
	"pos_home", "pos_visitor",
	"ast_tov_ratio_diff", "stl_pct_diff", "oreb_pct_diff", "drb_pct_diff",
	"pts_diff", "fgm_diff", "fg3m_diff", "fga_diff", "fta_diff",
	"blk_diff", "fg_pct_diff", "fg3_pct_diff", "ft_pct_diff",
}

// AllMetrics lists every derived metric in output column order.
var AllMetrics = []Metric{
	MetricPOSHome, MetricPOSVisitor,
	MetricASTTOVRatioDiff, MetricSTLPctDiff, MetricOREBPctDiff, MetricDRBPctDiff,
	MetricPTSDiff, MetricFGMDiff, MetricFG3MDiff, MetricFGADiff, MetricFTADiff,
	MetricBLKDiff, MetricFGPctDiff, MetricFG3PctDiff, MetricFTPctDiff,
}

// ModelFeatures are the metrics fed to the win-probability model.
var ModelFeatures = []Metric{
	MetricFG3MDiff, MetricFGADiff, MetricFTADiff, MetricBLKDiff,
	MetricFGPctDiff, MetricFG3PctDiff, MetricFTPctDiff,
	MetricASTTOVRatioDiff, MetricSTLPctDiff, MetricOREBPctDiff, MetricDRBPctDiff,
}

var diffMetrics = map[Stat]Metric{
	StatPTS:    MetricPTSDiff,
	StatFGM:    MetricFGMDiff,
	StatFG3M:   MetricFG3MDiff,
	StatFGA:    MetricFGADiff,
	StatFTA:    MetricFTADiff,
	StatBLK:    MetricBLKDiff,
	StatFGPct:  MetricFGPctDiff,
	StatFG3Pct: MetricFG3PctDiff,
	StatFTPct:  MetricFTPctDiff,
}

// DiffMetric returns the simple differential metric for stat.
// ok is false for ratio inputs, which have no simple differential.
func DiffMetric(stat Stat) (m Metric, ok bool) {
	m, ok = diffMetrics[stat]
	return m, ok
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	return m < numMetrics
}

// String returns the output column name, e.g. "AST/TOV_ratio_diff".
func (m Metric) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
	return metricNames[m]
}

// Column returns the SQL column name, e.g. "ast_tov_ratio_diff".
func (m Metric) Column() string {
	if !m.Valid() {
		return ""
	}
	return metricColumns[m]
}

// ParseMetric resolves an output column name to a Metric.
func ParseMetric(name string) (Metric, error) {
	for i, n := range metricNames {
		if n == name {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}
