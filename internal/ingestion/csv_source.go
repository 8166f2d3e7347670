package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/observability"
)

// CSVSource reads season game logs from <dir>/<season>.csv.
// Files use the provider's column names; extra columns are ignored.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source reading from dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

// SeasonPath returns the file read for season.
func (s *CSVSource) SeasonPath(season string) string {
	return filepath.Join(s.dir, season+".csv")
}

// FetchSeason implements GameLogSource.
func (s *CSVSource) FetchSeason(ctx context.Context, season string) ([]*domain.GameRecord, error) {
	if err := domain.ValidateSeason(season); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.SeasonPath(season))
	if err != nil {
		return nil, fmt.Errorf("open season %s: %w", season, err)
	}
	defer f.Close()

	records, err := ReadCSV(f, season)
	if err != nil {
		return nil, fmt.Errorf("read season %s: %w", season, err)
	}
	observability.RecordFetched("csv", len(records))
	return records, nil
}

// ReadCSV parses a game-log table. Every record is stamped with season.
// Empty statistic cells are missing values.
func ReadCSV(r io.Reader, season string) ([]*domain.GameRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", domain.ErrSchemaMismatch)
	}
	if err != nil {
		return nil, err
	}
	idx, err := domain.ColumnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []*domain.GameRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrSchemaMismatch, line, err)
		}
		rec, err := parseCSVRow(row, idx, season)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseCSVRow(row []string, idx map[string]int, season string) (*domain.GameRecord, error) {
	cell := func(col string) string { return strings.TrimSpace(row[idx[col]]) }

	date, err := time.Parse(domain.GameDateLayout, cell(domain.ColGameDate))
	if err != nil {
		return nil, fmt.Errorf("%w: GAME_DATE %q", domain.ErrSchemaMismatch, cell(domain.ColGameDate))
	}
	teamID, err := strconv.ParseInt(cell(domain.ColTeamID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: TEAM_ID %q", domain.ErrSchemaMismatch, cell(domain.ColTeamID))
	}

	r := &domain.GameRecord{
		SeasonID:         season,
		GameDate:         date,
		GameID:           cell(domain.ColGameID),
		TeamID:           teamID,
		TeamAbbreviation: cell(domain.ColTeamAbbreviation),
		Matchup:          cell(domain.ColMatchup),
		WL:               cell(domain.ColWL),
		Stats:            make(domain.StatLine, domain.NumStats),
	}
	for _, s := range domain.AllStats {
		raw := cell(s.String())
		if raw == "" {
			r.Stats[s] = domain.Missing()
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrSchemaMismatch, s, raw)
		}
		r.Stats[s] = domain.Some(v)
	}
	return r, nil
}

// WriteCSV writes records in domain.SourceColumns order. Missing values are empty cells.
func WriteCSV(w io.Writer, records []*domain.GameRecord) error {
	const idCols = 7
	statCols := make([]domain.Stat, 0, len(domain.SourceColumns)-idCols)
	for _, col := range domain.SourceColumns[idCols:] {
		s, err := domain.ParseStat(col)
		if err != nil {
			return err
		}
		statCols = append(statCols, s)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(domain.SourceColumns); err != nil {
		return err
	}

	row := make([]string, 0, len(domain.SourceColumns))
	for _, r := range records {
		row = row[:0]
		row = append(row,
			r.SeasonID,
			r.GameDate.Format(domain.GameDateLayout),
			r.GameID,
			strconv.FormatInt(r.TeamID, 10),
			r.TeamAbbreviation,
			r.Matchup,
			r.WL,
		)
		for _, s := range statCols {
			if v, ok := r.Stat(s).Get(); ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeasonCSV writes records to <dir>/<season>.csv, creating dir if needed.
func WriteSeasonCSV(dir, season string, records []*domain.GameRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	path := filepath.Join(dir, season+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
