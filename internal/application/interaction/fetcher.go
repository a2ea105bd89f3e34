package interaction

import (
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/interactome/internal/infrastructure/database/redis"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/client"
)

// Fetcher retrieves one raw interaction payload.  *client.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, kind client.Kind, structureID string) (json.RawMessage, error)
}

// StructureLocator resolves the structure file a viewer should load.
// *client.Client satisfies it.
type StructureLocator interface {
	StructureURL(structureID string) string
	StructureFormat() string
}

// CachedFetcher memoizes upstream payloads in Redis.  Only successful
// fetches are cached; concurrent misses on one key share a single upstream
// call.
type CachedFetcher struct {
	next    Fetcher
	cache   redis.Cache
	ttl     time.Duration
	metrics Metrics
	logger  logging.Logger
}

// NewCachedFetcher wraps next.  A zero ttl uses the cache default.
func NewCachedFetcher(next Fetcher, cache redis.Cache, ttl time.Duration, metrics Metrics, logger logging.Logger) *CachedFetcher {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, metrics: metrics, logger: logger.Named("payload-cache")}
}

// Invalidator drops cached payloads of a structure.  *CachedFetcher
// satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context, structureID string) error
}

// PayloadKey is the cache key of one payload.
func PayloadKey(kind client.Kind, structureID string) string {
	return "payload:" + string(kind) + ":" + structureID
}

// Fetch implements Fetcher.  Only a read served straight from Redis counts
// as a hit; callers that joined an in-flight load count as misses.
func (f *CachedFetcher) Fetch(ctx context.Context, kind client.Kind, structureID string) (json.RawMessage, error) {
	key := PayloadKey(kind, structureID)
	var raw json.RawMessage
	if err := f.cache.Get(ctx, key, &raw); err == nil {
		f.metrics.RecordCacheAccess("payload", true)
		f.logger.Debug("payload served from cache", logging.String("kind", string(kind)), logging.String("structure_id", structureID))
		return raw, nil
	}
	f.metrics.RecordCacheAccess("payload", false)
	err := f.cache.GetOrSet(ctx, key, &raw, f.ttl, func(ctx context.Context) (interface{}, error) {
		return f.next.Fetch(ctx, kind, structureID)
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Invalidate drops every cached payload of structureID.
func (f *CachedFetcher) Invalidate(ctx context.Context, structureID string) error {
	keys := make([]string, 0, len(client.Kinds()))
	for _, k := range client.Kinds() {
		keys = append(keys, PayloadKey(k, structureID))
	}
	return f.cache.Delete(ctx, keys...)
}

//Personal.AI order the ending
