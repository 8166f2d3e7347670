package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-matchup-lab/internal/pipeline"
)

func TestSeasonsOr(t *testing.T) {
	assert.Equal(t, []string{"2022-23"}, seasonsOr([]string{"2022-23"}, []string{"2021-22"}))
	assert.Equal(t, []string{"2021-22"}, seasonsOr(nil, []string{"2021-22"}))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, ":9090", firstNonEmpty("", ":9090", ":9091"))
	assert.Empty(t, firstNonEmpty("", ""))
}

func TestDemoCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MATCHUP_STORAGE_MODE", "memory")
	t.Setenv("MATCHUP_LOGGING_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"demo", "--output-dir", dir, "--teams", "10", "--rounds", "4"})
	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{
		pipeline.FeaturesCSVFile,
		pipeline.FeaturesXLSXFile,
		pipeline.BuildReportFile,
		pipeline.EvaluationReportFile,
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	assert.Contains(t, out.String(), "accuracy")
	report, err := os.ReadFile(filepath.Join(dir, pipeline.BuildReportFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(report), "# Feature Build Report"))
}
