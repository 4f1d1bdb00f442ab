package redis

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	config "github.com/harvestmarket/cache-service/configs"
	"github.com/harvestmarket/cache-service/internal/core/ports"
)

const scanBatchSize = 200

// Store adapts a shared Redis instance to ports.RemoteStore. Every command
// runs under its own timeout so an unreachable server fails fast instead of
// stalling request handling, and keys carry a configurable prefix so one
// Redis can serve several deployments.
type Store struct {
	client     redis.Cmdable
	prefix     string
	cmdTimeout time.Duration
}

func NewStore(client redis.Cmdable, cfg *config.RedisConfig) *Store {
	prefix := ""
	cmdTimeout := 5 * time.Second
	if cfg != nil {
		prefix = cfg.KeyPrefix
		if cfg.CommandTimeout > 0 {
			cmdTimeout = cfg.CommandTimeout
		}
	}
	return &Store{
		client:     client,
		prefix:     prefix,
		cmdTimeout: cmdTimeout,
	}
}

func (s *Store) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *Store) stripPrefix(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, s.prefix+":")
}

func (s *Store) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cmdTimeout)
}

// Get returns the raw payload for key. A missing key is a plain miss, not an
// error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := s.commandContext(ctx)
	defer cancel()

	payload, err := s.client.Get(ctx, s.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := s.commandContext(ctx)
	defer cancel()

	return s.client.Set(ctx, s.namespaced(key), value, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.commandContext(ctx)
	defer cancel()

	return s.client.Del(ctx, s.namespaced(key)).Err()
}

// ScanKeys walks the keyspace with SCAN and returns every key matching the
// glob pattern, with the namespace prefix stripped.
func (s *Store) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	match := s.namespaced(pattern)

	for {
		scanCtx, cancel := s.commandContext(ctx)
		batch, next, err := s.client.Scan(scanCtx, cursor, match, scanBatchSize).Result()
		cancel()
		if err != nil {
			return nil, err
		}

		for _, key := range batch {
			keys = append(keys, s.stripPrefix(key))
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Healthy reports whether the server currently answers a ping.
func (s *Store) Healthy(ctx context.Context) bool {
	ctx, cancel := s.commandContext(ctx)
	defer cancel()

	return s.client.Ping(ctx).Err() == nil
}

var _ ports.RemoteStore = (*Store)(nil)
