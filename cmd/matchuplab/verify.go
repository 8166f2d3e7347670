package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/features"
	"nba-matchup-lab/internal/verification"
)

var verifySeasons []string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Rebuild stored feature tables and compare",
	Long: `Recomputes each season's feature table from the stored game logs and compares
every field of every row, and the data version, with the stored table.
Exits non-zero when any season diverges.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringSliceVar(&verifySeasons, "season", nil, "seasons to verify (default every stored season)")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := features.NewEngine(cfg.FeatureConfig())
	if err != nil {
		return err
	}
	verifier := verification.NewVerifier(engine, st.games, st.features, st.runs)

	seasons := verifySeasons
	if len(seasons) == 0 {
		if seasons, err = st.games.ListSeasons(ctx); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	var failed []string
	for _, season := range seasons {
		report, err := verifier.VerifySeason(ctx, season)
		if err != nil {
			return err
		}
		status := "OK"
		if !report.Match() {
			status = "MISMATCH"
			failed = append(failed, season)
		}
		fmt.Fprintf(out, "%s: %s stored=%d rebuilt=%d matched=%d divergent=%d missing=%d extra=%d\n",
			season, status, report.StoredRows, report.RebuiltRows, report.MatchedRows,
			report.DivergentRows, len(report.MissingGameIDs), len(report.ExtraGameIDs))

		for _, r := range report.Results {
			for _, d := range r.Divergences {
				fmt.Fprintf(out, "  %s %s: stored=%v rebuilt=%v\n", r.GameID, d.Field, d.Expected, d.Actual)
			}
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("verification failed for %v", failed)
	}
	return nil
}
