package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/harvestmarket/cache-service/internal/core/ports"
)

// CacheService coordinates the local and remote tiers: reads walk
// local -> remote -> fetch and backfill the faster tiers on the way out.
// Tier failures are absorbed and logged so a broken cache degrades to a
// slower service, never a failing one; only the caller's fetch error is
// propagated.
type CacheService struct {
	local   ports.LocalStore
	remote  ports.RemoteStore
	metrics ports.CacheMetrics
	logger  *logrus.Logger

	defaultLocalTTL  time.Duration
	defaultRemoteTTL time.Duration
	backfillTimeout  time.Duration
	warmConcurrency  int

	backfills sync.WaitGroup
}

// CacheServiceConfig groups the tunables of the orchestrator.
type CacheServiceConfig struct {
	DefaultLocalTTL  time.Duration
	DefaultRemoteTTL time.Duration
	BackfillTimeout  time.Duration
	WarmConcurrency  int
}

func NewCacheService(local ports.LocalStore, remote ports.RemoteStore, cfg *CacheServiceConfig, metrics ports.CacheMetrics, logger *logrus.Logger) *CacheService {
	// Apply defaults
	localTTL := 5 * time.Minute
	remoteTTL := time.Hour
	backfillTimeout := 10 * time.Second
	warmConcurrency := 8
	if cfg != nil {
		if cfg.DefaultLocalTTL > 0 {
			localTTL = cfg.DefaultLocalTTL
		}
		if cfg.DefaultRemoteTTL > 0 {
			remoteTTL = cfg.DefaultRemoteTTL
		}
		if cfg.BackfillTimeout > 0 {
			backfillTimeout = cfg.BackfillTimeout
		}
		if cfg.WarmConcurrency > 0 {
			warmConcurrency = cfg.WarmConcurrency
		}
	}
	return &CacheService{
		local:            local,
		remote:           remote,
		metrics:          metrics,
		logger:           logger,
		defaultLocalTTL:  localTTL,
		defaultRemoteTTL: remoteTTL,
		backfillTimeout:  backfillTimeout,
		warmConcurrency:  warmConcurrency,
	}
}

// Get returns the value for key from the fastest tier that holds it, calling
// fetch only when both tiers miss. Concurrent misses on a cold key each call
// fetch independently; callers that need request coalescing layer their own
// (see repositories.CachingProductRepository).
func (s *CacheService) Get(ctx context.Context, key string, fetch ports.FetchFunc, opts *ports.CacheOptions) (any, error) {
	localTTL, remoteTTL, skipLocal, skipRemote := s.resolveOptions(opts)

	if !skipLocal {
		if value, ok := s.local.Get(key); ok {
			s.recordHit("local")
			return value, nil
		}
	}

	if !skipRemote {
		if value, ok := s.remoteGet(ctx, key); ok {
			s.recordHit("remote")
			if !skipLocal {
				s.local.Set(key, value, localTTL)
			}
			return value, nil
		}
	}

	s.recordMiss()
	if fetch == nil {
		return nil, nil
	}

	start := time.Now()
	value, err := fetch(ctx)
	s.recordFetch(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if !skipLocal {
		s.local.Set(key, value, localTTL)
	}
	if !skipRemote {
		s.backfillRemote(key, value, remoteTTL)
	}
	return value, nil
}

// Set writes value through both tiers. The remote write is awaited so a
// subsequent remote read sees it, but its failure is logged and swallowed.
func (s *CacheService) Set(ctx context.Context, key string, value any, opts *ports.CacheOptions) {
	localTTL, remoteTTL, skipLocal, skipRemote := s.resolveOptions(opts)

	if !skipLocal {
		s.local.Set(key, value, localTTL)
	}
	if skipRemote {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.warnKey(key, err, "cache: failed to encode value for remote write")
		return
	}
	if err := s.remote.SetWithTTL(ctx, key, payload, remoteTTL); err != nil {
		s.recordRemoteError("set")
		s.warnKey(key, err, "cache: remote write failed")
	}
}

// Delete removes key from both tiers.
func (s *CacheService) Delete(ctx context.Context, key string) {
	s.local.Delete(key)
	if err := s.remote.Delete(ctx, key); err != nil {
		s.recordRemoteError("delete")
		s.warnKey(key, err, "cache: remote delete failed")
	}
}

// Invalidate removes every remote key matching the glob pattern, then clears
// the local tier. The local tier has no pattern index, so it is cleared
// wholesale, and it is cleared even when the remote scan fails so stale local
// entries never outlive an invalidation.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	removed := 0
	keys, err := s.remote.ScanKeys(ctx, pattern)
	if err != nil {
		s.recordRemoteError("scan")
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"pattern": pattern}).WithError(err).Warn("cache: remote scan failed during invalidation")
		}
	} else {
		for _, key := range keys {
			if err := s.remote.Delete(ctx, key); err != nil {
				s.recordRemoteError("delete")
				s.warnKey(key, err, "cache: remote delete failed during invalidation")
				continue
			}
			removed++
		}
	}

	s.local.Clear()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"pattern": pattern, "remote_keys_removed": removed}).Debug("cache: invalidated pattern")
	}
}

// Warm applies Set to each entry concurrently. Entries are independent: one
// bad entry never blocks or fails the others.
func (s *CacheService) Warm(ctx context.Context, entries []ports.WarmEntry) {
	if len(entries) == 0 {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(s.warmConcurrency)
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			s.Set(ctx, entry.Key, entry.Value, entry.Options)
			return nil
		})
	}
	_ = g.Wait()

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"entries": len(entries)}).Debug("cache: warmed entries")
	}
}

// Stats snapshots both tiers. It never fails: an unreachable remote store is
// reported as unavailable.
func (s *CacheService) Stats(ctx context.Context) ports.CacheStats {
	status := ports.RemoteStatusUnavailable
	if s.remote.Healthy(ctx) {
		status = ports.RemoteStatusHealthy
	}
	return ports.CacheStats{
		Local:  s.local.Stats(),
		Remote: ports.RemoteStats{Status: status},
	}
}

// Close waits for in-flight remote backfills to finish. Each backfill runs
// under its own timeout, so the wait is bounded. The stores themselves are
// closed by their owner.
func (s *CacheService) Close() error {
	s.backfills.Wait()
	return nil
}

func (s *CacheService) resolveOptions(opts *ports.CacheOptions) (localTTL, remoteTTL time.Duration, skipLocal, skipRemote bool) {
	localTTL = s.defaultLocalTTL
	remoteTTL = s.defaultRemoteTTL
	if opts == nil {
		return localTTL, remoteTTL, false, false
	}
	if opts.LocalTTL > 0 {
		localTTL = opts.LocalTTL
	}
	if opts.RemoteTTL > 0 {
		remoteTTL = opts.RemoteTTL
	}
	return localTTL, remoteTTL, opts.SkipLocal, opts.SkipRemote
}

// remoteGet reads and decodes one key from the remote tier. Transport errors
// and malformed payloads both degrade to a miss.
func (s *CacheService) remoteGet(ctx context.Context, key string) (any, bool) {
	payload, found, err := s.remote.Get(ctx, key)
	if err != nil {
		s.recordRemoteError("get")
		s.warnKey(key, err, "cache: remote read failed, treating as miss")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		s.recordRemoteError("decode")
		s.warnKey(key, err, "cache: malformed remote payload, treating as miss")
		return nil, false
	}
	return value, true
}

// backfillRemote writes a fetched value to the remote tier without delaying
// the caller. The goroutine carries its own timeout and is drained by Close.
func (s *CacheService) backfillRemote(key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.warnKey(key, err, "cache: failed to encode value for remote backfill")
		return
	}

	s.backfills.Add(1)
	go func() {
		defer s.backfills.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.backfillTimeout)
		defer cancel()
		if err := s.remote.SetWithTTL(ctx, key, payload, ttl); err != nil {
			s.recordRemoteError("set")
			s.warnKey(key, err, "cache: remote backfill failed")
		}
	}()
}

func (s *CacheService) warnKey(key string, err error, msg string) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn(msg)
	}
}

func (s *CacheService) recordHit(tier string) {
	if s.metrics != nil {
		s.metrics.RecordHit(tier)
	}
}

func (s *CacheService) recordMiss() {
	if s.metrics != nil {
		s.metrics.RecordMiss()
	}
}

func (s *CacheService) recordRemoteError(op string) {
	if s.metrics != nil {
		s.metrics.RecordRemoteError(op)
	}
}

func (s *CacheService) recordFetch(d time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.RecordFetch(d, err)
	}
}

var _ ports.CacheService = (*CacheService)(nil)
