package ingestion

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-matchup-lab/internal/domain"
)

func TestWriteCSV_ReadCSV(t *testing.T) {
	records := []*domain.GameRecord{
		fullRecord("2021-22", "0022100001", 1, 20, "TB vs. TC", "W", 100),
		fullRecord("2021-22", "0022100001", 2, 20, "TC @ TB", "L", 95.5),
	}
	records[1].Stats[domain.StatFG3Pct] = domain.Missing()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(domain.SourceColumns, ","), header)

	got, err := ReadCSV(&buf, "2021-22")
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range records {
		assert.Equal(t, records[i].GameID, got[i].GameID)
		assert.Equal(t, records[i].TeamID, got[i].TeamID)
		assert.True(t, records[i].GameDate.Equal(got[i].GameDate))
		assert.Equal(t, records[i].Matchup, got[i].Matchup)
		assert.Equal(t, records[i].WL, got[i].WL)
		for _, s := range domain.AllStats {
			assert.Equal(t, records[i].Stat(s), got[i].Stat(s), "stat %s", s)
		}
		require.NoError(t, got[i].Validate())
	}
	assert.False(t, got[1].Stat(domain.StatFG3Pct).Valid())
}

func TestReadCSV_MissingColumn(t *testing.T) {
	cols := make([]string, 0, len(domain.SourceColumns))
	for _, c := range domain.SourceColumns {
		if c != "DREB" {
			cols = append(cols, c)
		}
	}
	_, err := ReadCSV(strings.NewReader(strings.Join(cols, ",")+"\n"), "2021-22")
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "DREB")
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "2021-22")
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestReadCSV_BadNumber(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*domain.GameRecord{
		fullRecord("2021-22", "g1", 1, 20, "TB vs. TC", "W", 100),
	}))
	bad := strings.Replace(buf.String(), ",100,", ",abc,", 1)

	_, err := ReadCSV(strings.NewReader(bad), "2021-22")
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestCSVSource_FetchSeason(t *testing.T) {
	dir := t.TempDir()
	records := []*domain.GameRecord{
		fullRecord("2022-23", "g1", 1, 20, "TB vs. TC", "W", 100),
		fullRecord("2022-23", "g1", 2, 20, "TC @ TB", "L", 90),
	}
	path, err := WriteSeasonCSV(dir, "2022-23", records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2022-23.csv"), path)

	src := NewCSVSource(dir)
	got, err := src.FetchSeason(context.Background(), "2022-23")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2022-23", got[0].SeasonID)

	_, err = src.FetchSeason(context.Background(), "2023-24")
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}
