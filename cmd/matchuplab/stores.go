package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nba-matchup-lab/internal/cache"
	"nba-matchup-lab/internal/config"
	"nba-matchup-lab/internal/ingestion"
	"nba-matchup-lab/internal/statsapi"
	"nba-matchup-lab/internal/storage"
	chstore "nba-matchup-lab/internal/storage/clickhouse"
	"nba-matchup-lab/internal/storage/memory"
	pgstore "nba-matchup-lab/internal/storage/postgres"
	"nba-matchup-lab/internal/storage/sqlite"
)

// stores holds the storage implementations selected by the storage mode.
type stores struct {
	games    storage.GameRecordStore
	features storage.FeatureVectorStore
	runs     storage.BuildRunStore
	closers  []func()
}

// Close releases every opened connection.
func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores wires the stores for a storage mode:
//   - memory:   everything in memory
//   - postgres: game records and build runs in Postgres, feature vectors in ClickHouse
//   - sqlite:   game records and build runs in a local SQLite file, feature
//     vectors in ClickHouse when a DSN is configured, else in memory
func openStores(ctx context.Context, sc config.StorageConfig, logger *slog.Logger) (*stores, error) {
	s := &stores{}

	switch sc.Mode {
	case config.StorageMemory:
		s.games = memory.NewGameRecordStore()
		s.features = memory.NewFeatureVectorStore()
		s.runs = memory.NewBuildRunStore()

	case config.StoragePostgres:
		pool, err := pgstore.NewPool(ctx, sc.PostgresDSN)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.games = pgstore.NewGameRecordStore(pool)
		s.runs = pgstore.NewBuildRunStore(pool)

		features, err := openClickHouse(ctx, s, sc.ClickHouseDSN)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.features = features

	case config.StorageSQLite:
		if dir := filepath.Dir(sc.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		db, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		s.games = sqlite.NewGameRecordStore(db)
		s.runs = sqlite.NewBuildRunStore(db)

		if sc.ClickHouseDSN != "" {
			features, err := openClickHouse(ctx, s, sc.ClickHouseDSN)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.features = features
		} else {
			s.features = memory.NewFeatureVectorStore()
		}

	default:
		return nil, fmt.Errorf("unknown storage mode %q", sc.Mode)
	}

	logger.Debug("stores opened", "mode", sc.Mode)
	return s, nil
}

func openClickHouse(ctx context.Context, s *stores, dsn string) (storage.FeatureVectorStore, error) {
	conn, err := chstore.NewConn(ctx, dsn)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { _ = conn.Close() })
	return chstore.NewFeatureVectorStore(conn), nil
}

// openSource builds the game log source: CSV files when a directory is
// configured, otherwise the provider client behind a response cache.
func openSource(ctx context.Context, c *config.Config, logger *slog.Logger) (ingestion.GameLogSource, func(), error) {
	if c.StatsAPI.CSVDir != "" {
		logger.Info("reading game logs from csv", "dir", c.StatsAPI.CSVDir)
		return ingestion.NewCSVSource(c.StatsAPI.CSVDir), func() {}, nil
	}

	opts := []statsapi.ClientOption{
		statsapi.WithTimeout(c.StatsAPI.Timeout),
		statsapi.WithMaxRetries(c.StatsAPI.MaxRetries),
		statsapi.WithRateLimit(c.StatsAPI.RequestsPerSecond, c.StatsAPI.Burst),
	}
	if c.StatsAPI.UserAgent != "" {
		opts = append(opts, statsapi.WithUserAgent(c.StatsAPI.UserAgent))
	}
	client := statsapi.NewClient(c.StatsAPI.BaseURL, opts...)

	if !c.Cache.Enabled {
		mc := cache.NewMemoryCache()
		return ingestion.NewCachedSource(client, mc, c.Cache.TTL, logger), func() { _ = mc.Close() }, nil
	}

	rc, err := cache.NewRedisCache(ctx, c.Cache.Addr, c.Cache.Password, c.Cache.DB)
	if err != nil {
		return nil, nil, err
	}
	return ingestion.NewCachedSource(client, rc, c.Cache.TTL, logger), func() { _ = rc.Close() }, nil
}
