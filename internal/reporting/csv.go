package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"nba-matchup-lab/internal/domain"
)

// FeatureColumns is the header of the exported feature table.
var FeatureColumns = featureColumns()

func featureColumns() []string {
	cols := []string{
		"MATCHUP", "SEASON_ID", "WL",
		"TEAM_ABBREVIATION_home", "TEAM_ABBREVIATION_visitor",
		"TEAM_ID_home", "TEAM_ID_visitor",
		"GAME_ID", "GAME_DATE",
	}
	for _, m := range domain.AllMetrics {
		cols = append(cols, m.String())
	}
	return cols
}

// FeatureRow renders one feature vector in FeatureColumns order.
func FeatureRow(fv *domain.FeatureVector) []string {
	row := make([]string, 0, len(FeatureColumns))
	row = append(row,
		fv.Matchup,
		fv.SeasonID,
		strconv.Itoa(fv.Label),
		fv.HomeTeamAbbreviation,
		fv.VisitorTeamAbbreviation,
		strconv.FormatInt(fv.HomeTeamID, 10),
		strconv.FormatInt(fv.VisitorTeamID, 10),
		fv.GameID,
		fv.GameDate.Format(domain.GameDateLayout),
	)
	for _, m := range domain.AllMetrics {
		row = append(row, formatFloat(fv.Metric(m)))
	}
	return row
}

// RenderFeaturesCSV renders feature vectors as CSV in the given row order.
// Identical vectors always render to identical bytes.
func RenderFeaturesCSV(vectors []*domain.FeatureVector) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(FeatureColumns); err != nil {
		return "", err
	}
	for _, fv := range vectors {
		if err := w.Write(FeatureRow(fv)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
