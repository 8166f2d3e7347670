package ingestion

import (
	"context"
	"log/slog"
	"time"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/observability"
)

// DefaultCacheTTL is how long a fetched season stays cached.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores JSON-encodable values by key.
type Cache interface {
	// GetJSON decodes the value at key into dest and reports whether it existed.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	// SetJSON stores value at key for ttl.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedSource consults a Cache before delegating to the wrapped source.
// Cache failures are logged and fall through to the source.
type CachedSource struct {
	source GameLogSource
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps source. A non-positive ttl uses DefaultCacheTTL.
func NewCachedSource(source GameLogSource, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{source: source, cache: cache, ttl: ttl, logger: logger}
}

// CacheKey returns the cache key for a season's game log.
func CacheKey(season string) string {
	return "gamelog:" + season
}

// FetchSeason implements GameLogSource.
func (c *CachedSource) FetchSeason(ctx context.Context, season string) ([]*domain.GameRecord, error) {
	key := CacheKey(season)

	var cached []*domain.GameRecord
	hit, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	observability.RecordCacheLookup(hit && err == nil)
	if hit && err == nil {
		c.logger.DebugContext(ctx, "cache hit", "key", key, "records", len(cached))
		return cached, nil
	}

	records, err := c.source.FetchSeason(ctx, season)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetJSON(ctx, key, records, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return records, nil
}
