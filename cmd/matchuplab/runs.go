package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/reporting"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored build runs",
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.runs.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no build runs stored")
		return nil
	}
	reporting.RenderRunsTable(cmd.OutOrStdout(), runs)
	return nil
}
