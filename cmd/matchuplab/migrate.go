package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/storage/migrations"
	pgstore "nba-matchup-lab/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply Postgres and ClickHouse schema migrations",
	Long: `Applies the embedded migrations to the configured Postgres and ClickHouse
databases. Either is skipped when its DSN is not configured. Migrations are
idempotent.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	sc := cfg.Storage

	if sc.PostgresDSN == "" && sc.ClickHouseDSN == "" {
		return fmt.Errorf("no database configured: set storage.postgres_dsn or storage.clickhouse_dsn")
	}

	if sc.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, sc.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "postgres: %d migrations applied\n", len(applied))
		for _, name := range applied {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}

	if sc.ClickHouseDSN != "" {
		conn, applied, err := migrations.RunClickhouseMigrations(ctx, sc.ClickHouseDSN)
		if err != nil {
			return err
		}
		_ = conn.Close()
		fmt.Fprintf(out, "clickhouse: %d migrations applied to %s\n", len(applied), conn.Database())
		for _, name := range applied {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	return nil
}
