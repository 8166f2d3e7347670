package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/ingestion"
	"nba-matchup-lab/internal/storage"
)

var (
	fetchSeasons   []string
	fetchExportDir string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch team game logs and store them",
	Long: `Fetches regular-season team game logs for each season from the stats provider
(or a CSV directory) and stores them in the game record store. Seasons already
stored are skipped. With --export-csv the fetched records are also written to
<dir>/<season>.csv for offline builds.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchSeasons, "season", nil, "seasons to fetch, e.g. 2022-23 (default from config)")
	fetchCmd.Flags().StringVar(&fetchExportDir, "export-csv", "", "also write fetched records to this directory")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	seasons := seasonsOr(fetchSeasons, cfg.Features.Seasons)

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	source, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	mgr := ingestion.NewManager(ingestion.ManagerOptions{
		Source: source,
		Store:  st.games,
		Logger: logger,
	})

	out := cmd.OutOrStdout()
	for _, season := range seasons {
		n, err := mgr.IngestSeason(ctx, season)
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			fmt.Fprintf(out, "%s: already stored, skipped\n", season)
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "%s: %d records stored\n", season, n)
		}

		if fetchExportDir == "" {
			continue
		}
		records, err := st.games.GetBySeason(ctx, season)
		if err != nil {
			return err
		}
		path, err := ingestion.WriteSeasonCSV(fetchExportDir, season, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: exported to %s\n", season, path)
	}
	return nil
}
