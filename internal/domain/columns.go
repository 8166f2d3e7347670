package domain

// Identifying source columns, in provider order.
const (
	ColSeasonID         = "SEASON_ID"
	ColGameDate         = "GAME_DATE"
	ColGameID           = "GAME_ID"
	ColTeamID           = "TEAM_ID"
	ColTeamAbbreviation = "TEAM_ABBREVIATION"
	ColMatchup          = "MATCHUP"
	ColWL               = "WL"
)

// SourceColumns lists the 21 columns a raw game-log table must carry:
// the identifying columns followed by the tracked statistics.
var SourceColumns = []string{
	ColSeasonID, ColGameDate, ColGameID, ColTeamID, ColTeamAbbreviation, ColMatchup, ColWL,
	"PTS", "AST", "TOV", "STL", "BLK", "FG_PCT", "FTA", "FG3_PCT", "FT_PCT",
	"FGM", "FG3M", "FGA", "OREB", "DREB",
}

// ColumnIndex maps each of SourceColumns to its position in header.
// Extra header columns are ignored; a missing one returns ErrSchemaMismatch.
func ColumnIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	idx := make(map[string]int, len(SourceColumns))
	for _, col := range SourceColumns {
		i, ok := pos[col]
		if !ok {
			return nil, schemaErrorf("missing column %s", col)
		}
		idx[col] = i
	}
	return idx, nil
}
