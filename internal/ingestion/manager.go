package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/observability"
	"nba-matchup-lab/internal/storage"
)

// Manager orchestrates ingestion from a source to storage.
// It validates records, enforces deterministic ordering, and uses the storage
// layer for duplicate rejection.
type Manager struct {
	source GameLogSource
	store  storage.GameRecordStore
	logger *slog.Logger
	clock  func() time.Time
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	Source GameLogSource
	Store  storage.GameRecordStore
	Logger *slog.Logger
}

// NewManager creates a new ingestion manager with the provided source and store.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		source: opts.Source,
		store:  opts.Store,
		logger: logger,
		clock:  time.Now,
	}
}

// IngestSeason fetches a season from the source and stores it.
// Records are validated, then ordered by (team_id, game_date, game_id).
// Returns count of ingested records.
// Duplicates are rejected by the storage layer (ErrDuplicateKey).
func (m *Manager) IngestSeason(ctx context.Context, season string) (int, error) {
	if m.source == nil || m.store == nil {
		return 0, nil
	}
	if err := domain.ValidateSeason(season); err != nil {
		return 0, err
	}

	records, err := m.source.FetchSeason(ctx, season)
	if err != nil {
		return 0, err
	}

	if len(records) == 0 {
		m.logger.WarnContext(ctx, "source returned no records", "season", season)
		return 0, nil
	}

	for _, r := range records {
		if r.SeasonID != season {
			return 0, fmt.Errorf("%w: record for game %s has season %q, want %q",
				domain.ErrSchemaMismatch, r.GameID, r.SeasonID, season)
		}
		if err := r.Validate(); err != nil {
			return 0, err
		}
	}

	// Enforce deterministic ordering
	domain.SortGameRecords(records)
	if err := ValidateGameRecordOrdering(records); err != nil {
		// sorted input only fails on a repeated (team, date, game) key
		return 0, fmt.Errorf("season %s: source returned duplicate team records: %w", season, err)
	}

	// Store via bulk insert - storage layer handles duplicates
	if err := m.store.InsertBulk(ctx, records); err != nil {
		return 0, fmt.Errorf("store season %s: %w", season, err)
	}

	observability.RecordStored(season, len(records), m.clock().Unix())
	m.logger.InfoContext(ctx, "season ingested", "season", season, "records", len(records))
	return len(records), nil
}

// IngestSeasons ingests each season in order and returns per-season counts.
// It stops at the first error.
func (m *Manager) IngestSeasons(ctx context.Context, seasons []string) (map[string]int, error) {
	counts := make(map[string]int, len(seasons))
	for _, season := range seasons {
		n, err := m.IngestSeason(ctx, season)
		if err != nil {
			return counts, fmt.Errorf("ingest season %s: %w", season, err)
		}
		counts[season] = n
	}
	return counts, nil
}
