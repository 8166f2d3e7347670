package statsapi

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"nba-matchup-lab/internal/domain"
)

type gameFinderResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// decodeResultSet maps a header/rowSet table onto game records, keeping only
// domain.SourceColumns. season overrides the provider's numeric SEASON_ID.
func decodeResultSet(rs *resultSet, season string) ([]*domain.GameRecord, error) {
	idx, err := domain.ColumnIndex(rs.Headers)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.GameRecord, 0, len(rs.RowSet))
	for n, row := range rs.RowSet {
		if len(row) < len(rs.Headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
				domain.ErrSchemaMismatch, n, len(row), len(rs.Headers))
		}
		r, err := decodeRow(row, idx, season)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func decodeRow(row []any, idx map[string]int, season string) (*domain.GameRecord, error) {
	cell := func(col string) any { return row[idx[col]] }

	dateStr := stringCell(cell(domain.ColGameDate))
	date, err := time.Parse(domain.GameDateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: GAME_DATE %q", domain.ErrSchemaMismatch, dateStr)
	}

	teamID, ok := numberCell(cell(domain.ColTeamID))
	if !ok {
		return nil, fmt.Errorf("%w: TEAM_ID %v", domain.ErrSchemaMismatch, cell(domain.ColTeamID))
	}

	r := &domain.GameRecord{
		SeasonID:         season,
		GameDate:         date,
		GameID:           stringCell(cell(domain.ColGameID)),
		TeamID:           int64(teamID),
		TeamAbbreviation: stringCell(cell(domain.ColTeamAbbreviation)),
		Matchup:          stringCell(cell(domain.ColMatchup)),
		WL:               stringCell(cell(domain.ColWL)),
		Stats:            make(domain.StatLine, domain.NumStats),
	}
	for _, s := range domain.AllStats {
		if v, ok := numberCell(cell(s.String())); ok {
			r.Stats[s] = domain.Some(v)
		} else {
			r.Stats[s] = domain.Missing()
		}
	}
	return r, nil
}

// stringCell renders a JSON cell as text. null is "".
func stringCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// numberCell reads a numeric cell. null, non-numeric and NaN cells are not ok.
func numberCell(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}
