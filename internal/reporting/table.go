package reporting

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"nba-matchup-lab/internal/domain"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// RenderBuildTable writes the per-season build summary as a terminal table.
func RenderBuildTable(w io.Writer, r *BuildReport) {
	table := newTable(w)
	table.Header("SEASON", "INPUT", "PAIRED", "UNPAIRED", "GATED", "OUTPUT", "HOME_WIN%", "VERSION")

	for _, s := range r.Seasons {
		table.Append(
			s.SeasonID,
			strconv.Itoa(s.InputRecords),
			strconv.Itoa(s.PairedGames),
			strconv.Itoa(s.UnpairedGames),
			strconv.Itoa(s.GatedRows),
			strconv.Itoa(s.OutputRows),
			fmt.Sprintf("%.1f%%", s.HomeWinRate*100),
			shortVersion(s.DataVersion),
		)
	}
	table.Render()
}

// RenderCoefficientTable writes model coefficients as a terminal table.
func RenderCoefficientTable(w io.Writer, rows []CoefficientRow) {
	table := newTable(w)
	table.Header("FEATURE", "COEF", "ODDS_MULT_PER_1STD")

	for _, c := range rows {
		table.Append(
			c.Feature,
			fmt.Sprintf("%+.4f", c.Coef),
			fmt.Sprintf("%.4f", c.OddsMultiplier),
		)
	}
	table.Render()
}

// RenderRunsTable writes stored build runs as a terminal table.
func RenderRunsTable(w io.Writer, runs []*domain.BuildRun) {
	table := newTable(w)
	table.Header("SEASON", "CREATED", "WINDOW", "INPUT", "PAIRED", "UNPAIRED", "OUTPUT", "RUN_ID", "VERSION")

	for _, r := range runs {
		table.Append(
			r.SeasonID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.Window),
			strconv.Itoa(r.InputRecords),
			strconv.Itoa(r.PairedGames),
			strconv.Itoa(r.UnpairedGames()),
			strconv.Itoa(r.OutputRows),
			shortVersion(r.RunID),
			shortVersion(r.DataVersion),
		)
	}
	table.Render()
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
