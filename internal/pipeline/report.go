package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nba-matchup-lab/internal/observability"
	"nba-matchup-lab/internal/reporting"
	"nba-matchup-lab/internal/storage"
)

// Output file names.
const (
	FeaturesCSVFile  = "features.csv"
	FeaturesXLSXFile = "features.xlsx"
	BuildReportFile  = "BUILD_REPORT.md"
)

// ReportPipeline exports built seasons and their build report.
type ReportPipeline struct {
	reportGen       *reporting.Generator
	featureStore    storage.FeatureVectorStore
	outputDir       string
	clock           func() time.Time
	sufficiency     []*SufficiencyResult
	integrityErrors []string // additional integrity errors, e.g. failed seasons
}

// NewReportPipeline creates a new report pipeline writing into outputDir.
func NewReportPipeline(
	runStore storage.BuildRunStore,
	featureStore storage.FeatureVectorStore,
	outputDir string,
) *ReportPipeline {
	return &ReportPipeline{
		reportGen:    reporting.NewGenerator(runStore, featureStore),
		featureStore: featureStore,
		outputDir:    outputDir,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *ReportPipeline) WithClock(clock func() time.Time) *ReportPipeline {
	p.clock = clock
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// WithSufficiencyResults includes sufficiency check results in the report.
func (p *ReportPipeline) WithSufficiencyResults(results []*SufficiencyResult) *ReportPipeline {
	p.sufficiency = append(p.sufficiency, results...)
	return p
}

// WithIntegrityErrors adds additional integrity errors to include in the report.
func (p *ReportPipeline) WithIntegrityErrors(errors []string) *ReportPipeline {
	p.integrityErrors = append(p.integrityErrors, errors...)
	return p
}

// Run writes the following files for seasons and returns the report:
// - features.csv
// - features.xlsx
// - BUILD_REPORT.md
func (p *ReportPipeline) Run(ctx context.Context, seasons []string) (*reporting.BuildReport, error) {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, err
	}

	// 1. Generate report
	report, err := p.reportGen.Generate(ctx, seasons)
	if err != nil {
		return nil, err
	}
	report.DataQuality = convertToDataQuality(p.sufficiency)
	if len(p.integrityErrors) > 0 {
		report.DataQuality.IntegrityErrors = append(report.DataQuality.IntegrityErrors, p.integrityErrors...)
		report.DataQuality.AllChecksPassed = false
	}

	// 2. Load the feature table in report season order
	ordered := make([]string, len(report.Seasons))
	for i, s := range report.Seasons {
		ordered[i] = s.SeasonID
	}
	vectors, err := p.featureStore.GetBySeasons(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("load feature vectors: %w", err)
	}

	// 3. Write features.csv
	featuresCSV, err := reporting.RenderFeaturesCSV(vectors)
	if err != nil {
		return nil, fmt.Errorf("render features csv: %w", err)
	}
	if err := p.writeFile(FeaturesCSVFile, []byte(featuresCSV)); err != nil {
		return nil, err
	}

	// 4. Write features.xlsx
	var xlsx bytes.Buffer
	if err := reporting.WriteFeatureWorkbook(&xlsx, vectors, report); err != nil {
		return nil, err
	}
	if err := p.writeFile(FeaturesXLSXFile, xlsx.Bytes()); err != nil {
		return nil, err
	}

	// 5. Write BUILD_REPORT.md
	if err := p.writeFile(BuildReportFile, []byte(reporting.RenderBuildMarkdown(report))); err != nil {
		return nil, err
	}

	observability.RecordReportGenerated()
	return report, nil
}

func (p *ReportPipeline) writeFile(name string, data []byte) error {
	path := filepath.Join(p.outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// convertToDataQuality flattens per-season sufficiency results into report rows.
func convertToDataQuality(results []*SufficiencyResult) reporting.DataQualitySection {
	dq := reporting.DataQualitySection{AllChecksPassed: len(results) > 0}
	for _, r := range results {
		for _, c := range r.Checks {
			dq.SufficiencyChecks = append(dq.SufficiencyChecks, reporting.SufficiencyCheckRow{
				SeasonID:  r.SeasonID,
				Name:      c.Name,
				Threshold: c.Threshold,
				Actual:    c.Actual,
				Pass:      c.Pass,
			})
		}
		for _, e := range r.Errors {
			dq.IntegrityErrors = append(dq.IntegrityErrors, r.SeasonID+": "+e)
		}
		if !r.AllPass {
			dq.AllChecksPassed = false
		}
	}
	return dq
}
