package reporting

import (
	"fmt"
	"strings"
	"time"
)

// maxListedUnpaired caps the unpaired game ids listed per season.
const maxListedUnpaired = 50

// RenderBuildMarkdown renders the build report as Markdown.
func RenderBuildMarkdown(r *BuildReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Feature Build Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Seasons: %d | Window: %d | Epsilon: %g | Rows: %d\n\n",
		len(r.Seasons), r.Window, r.Epsilon, r.TotalRows))

	// Season Summary
	sb.WriteString("## Season Summary\n\n")
	if len(r.Seasons) > 0 {
		sb.WriteString("| Season | Input | Paired | Unpaired | Gated | Output | Home Win% |\n")
		sb.WriteString("|--------|-------|--------|----------|-------|--------|-----------|\n")
		for _, s := range r.Seasons {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d | %.4f |\n",
				s.SeasonID, s.InputRecords, s.PairedGames, s.UnpairedGames,
				s.GatedRows, s.OutputRows, s.HomeWinRate))
		}
	} else {
		sb.WriteString("No seasons built.\n")
	}
	sb.WriteString("\n")

	// Data Quality
	sb.WriteString("## Data Quality\n\n")
	if len(r.DataQuality.SufficiencyChecks) > 0 {
		sb.WriteString("### Sufficiency Checks\n\n")
		sb.WriteString("| Season | Check | Threshold | Actual | Status |\n")
		sb.WriteString("|--------|-------|-----------|--------|--------|\n")
		for _, check := range r.DataQuality.SufficiencyChecks {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				check.SeasonID, check.Name, check.Threshold, check.Actual, status))
		}
		sb.WriteString("\n")

		if r.DataQuality.AllChecksPassed {
			sb.WriteString("**All checks passed.**\n\n")
		} else {
			sb.WriteString("**Some checks failed.** Review before training.\n\n")
		}
	} else if len(r.DataQuality.IntegrityErrors) == 0 {
		sb.WriteString("No data quality checks performed.\n\n")
	}

	// Integrity errors (always shown if present, even without sufficiency checks)
	if len(r.DataQuality.IntegrityErrors) > 0 {
		sb.WriteString("### Integrity Errors\n\n")
		for _, err := range r.DataQuality.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	// Unpaired Games
	sb.WriteString("## Unpaired Games\n\n")
	anyUnpaired := false
	for _, s := range r.Seasons {
		if len(s.UnpairedGameIDs) == 0 {
			continue
		}
		anyUnpaired = true
		ids := s.UnpairedGameIDs
		suffix := ""
		if len(ids) > maxListedUnpaired {
			suffix = fmt.Sprintf(" (+%d more)", len(ids)-maxListedUnpaired)
			ids = ids[:maxListedUnpaired]
		}
		sb.WriteString(fmt.Sprintf("- %s: %s%s\n", s.SeasonID, strings.Join(ids, ", "), suffix))
	}
	if !anyUnpaired {
		sb.WriteString("Every game was paired.\n")
	}
	sb.WriteString("\n")

	// Reproducibility
	sb.WriteString("## Reproducibility\n\n")
	sb.WriteString("| Season | Run ID | Data Version | Built At |\n")
	sb.WriteString("|--------|--------|--------------|----------|\n")
	for _, s := range r.Seasons {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			s.SeasonID, s.RunID, s.DataVersion, s.BuiltAt.UTC().Format(time.RFC3339)))
	}
	sb.WriteString(fmt.Sprintf("\nCombined data version: `%s`\n", r.DataVersion))

	return sb.String()
}
