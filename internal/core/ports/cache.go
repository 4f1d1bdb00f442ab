package ports

import (
	"context"
	"time"
)

// FetchFunc loads the authoritative value for a key on a full cache miss.
// It must be side-effect free on failure; its error is the only error the
// cache ever propagates to callers.
type FetchFunc func(ctx context.Context) (any, error)

// CacheOptions tunes a single cache call. A nil *CacheOptions means all
// defaults. Zero TTLs fall back to the service-wide defaults.
type CacheOptions struct {
	// LocalTTL is the lifetime written into local entries (default 5m).
	LocalTTL time.Duration
	// RemoteTTL is the lifetime written into remote entries (default 1h).
	RemoteTTL time.Duration
	// SkipLocal bypasses the local tier entirely for this call.
	SkipLocal bool
	// SkipRemote bypasses the remote tier entirely for this call.
	SkipRemote bool
}

// WarmEntry is one pre-populated key/value pair for CacheService.Warm.
type WarmEntry struct {
	Key     string        `json:"key"`
	Value   any           `json:"value"`
	Options *CacheOptions `json:"options,omitempty"`
}

// LocalStats is a read-only snapshot of the local tier.
type LocalStats struct {
	Entries     int    `json:"entries"`
	SizeBytes   int64  `json:"size_bytes"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// Remote tier status values reported by CacheStats.
const (
	RemoteStatusHealthy     = "healthy"
	RemoteStatusUnavailable = "unavailable"
)

// RemoteStats reports reachability of the shared remote tier.
type RemoteStats struct {
	Status string `json:"status"`
}

// CacheStats is the combined snapshot returned by CacheService.Stats.
type CacheStats struct {
	Local  LocalStats  `json:"local"`
	Remote RemoteStats `json:"remote"`
}

// LocalStore is the in-process, bounded, TTL-aware cache tier. Operations are
// synchronous and in-memory; implementations must be safe for concurrent use.
type LocalStore interface {
	// Get returns the live value for key. An expired entry is removed and
	// reported absent (lazy expiry).
	Get(key string) (any, bool)
	// Set stores value with the given TTL, evicting older entries as needed
	// to stay within capacity. It never fails.
	Set(key string, value any, ttl time.Duration)
	// Delete removes the key and reports whether it was present.
	Delete(key string) bool
	// Clear removes all entries.
	Clear()
	// Sweep removes every expired entry and returns how many were dropped.
	Sweep() int
	// Stats returns the current snapshot.
	Stats() LocalStats
	// Close stops the background sweeper.
	Close()
}

// RemoteStore adapts the shared network cache. Implementations must bound
// every call with connect and per-command timeouts so an unreachable store
// fails fast instead of hanging callers.
type RemoteStore interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// SetWithTTL stores value under key for the given lifetime.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
	// ScanKeys lists every key matching a glob pattern ('*' wildcard).
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	// Healthy reports whether the remote store currently answers a ping.
	Healthy(ctx context.Context) bool
}

// CacheService composes the local and remote tiers behind a single API.
// Cache-tier failures are absorbed and logged; only the caller-supplied fetch
// error ever escapes, so caching can speed a working path up but never turn
// it into a failing one.
type CacheService interface {
	// Get consults local, then remote, then fetch, backfilling faster tiers
	// on the way out. Concurrent cold misses on one key are not deduplicated;
	// each invokes fetch independently.
	Get(ctx context.Context, key string, fetch FetchFunc, opts *CacheOptions) (any, error)
	// Set writes through both tiers. The local write is synchronous; the
	// remote write is awaited but its failure is swallowed.
	Set(ctx context.Context, key string, value any, opts *CacheOptions)
	// Delete removes the key from both tiers unconditionally.
	Delete(ctx context.Context, key string)
	// Invalidate deletes every remote key matching pattern and clears the
	// local tier completely. The local clear happens even when the remote
	// side fails.
	Invalidate(ctx context.Context, pattern string)
	// Warm applies Set to each entry concurrently and independently.
	Warm(ctx context.Context, entries []WarmEntry)
	// Stats returns a snapshot of both tiers. It never fails.
	Stats(ctx context.Context) CacheStats
	// Close drains in-flight background writes.
	Close() error
}
