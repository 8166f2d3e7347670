package reporting

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"nba-matchup-lab/internal/domain"
)

// Workbook sheet names.
const (
	FeaturesSheet = "features"
	SeasonsSheet  = "seasons"
)

// WriteFeatureWorkbook writes the feature table and the per-season build
// summary as a two-sheet XLSX workbook.
func WriteFeatureWorkbook(w io.Writer, vectors []*domain.FeatureVector, report *BuildReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), FeaturesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheetRow(f, FeaturesSheet, 1, stringsToCells(FeatureColumns)); err != nil {
		return err
	}
	for i, fv := range vectors {
		if err := writeSheetRow(f, FeaturesSheet, i+2, featureCells(fv)); err != nil {
			return err
		}
	}

	if report != nil {
		if _, err := f.NewSheet(SeasonsSheet); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
		header := []any{"SEASON_ID", "RUN_ID", "INPUT_RECORDS", "PAIRED_GAMES", "UNPAIRED_GAMES",
			"GATED_ROWS", "OUTPUT_ROWS", "HOME_WIN_RATE", "DATA_VERSION"}
		if err := writeSheetRow(f, SeasonsSheet, 1, header); err != nil {
			return err
		}
		for i, s := range report.Seasons {
			row := []any{s.SeasonID, s.RunID, s.InputRecords, s.PairedGames, s.UnpairedGames,
				s.GatedRows, s.OutputRows, s.HomeWinRate, s.DataVersion}
			if err := writeSheetRow(f, SeasonsSheet, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadFeatureSheet returns the rows of the features sheet of an XLSX workbook,
// header included.
func ReadFeatureSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(FeaturesSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", FeaturesSheet, err)
	}
	return rows, nil
}

// featureCells keeps ids as text and metrics as numbers.
func featureCells(fv *domain.FeatureVector) []any {
	cells := []any{
		fv.Matchup,
		fv.SeasonID,
		fv.Label,
		fv.HomeTeamAbbreviation,
		fv.VisitorTeamAbbreviation,
		strconv.FormatInt(fv.HomeTeamID, 10),
		strconv.FormatInt(fv.VisitorTeamID, 10),
		fv.GameID,
		fv.GameDate.Format(domain.GameDateLayout),
	}
	for _, m := range domain.AllMetrics {
		cells = append(cells, fv.Metric(m))
	}
	return cells
}

func stringsToCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeSheetRow(f *excelize.File, sheet string, row int, cells []any) error {
	for col, v := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}
