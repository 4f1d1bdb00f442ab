// Package localstore implements the in-process cache tier: a bounded,
// TTL-aware key/value table with lazy expiry on reads, a periodic sweep, and
// a documented eviction order (oldest-inserted first by default, LRU opt-in).
package localstore

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harvestmarket/cache-service/internal/core/ports"
)

const (
	PolicyFIFO = "fifo"
	PolicyLRU  = "lru"
)

const (
	defaultMaxEntries = 10000
	defaultMaxBytes   = 64 << 20
	// weight for values that cannot be serialized for size estimation
	fallbackWeight = 1
)

// Config groups construction parameters. Zero fields take defaults; a zero
// SweepInterval disables the background sweeper.
type Config struct {
	MaxEntries     int
	MaxBytes       int64
	SweepInterval  time.Duration
	EvictionPolicy string
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	size      int64
	elem      *list.Element
}

// Store is an in-memory ports.LocalStore. All operations are synchronous and
// guarded by a single mutex; values are held as-is and never copied.
type Store struct {
	mu    sync.Mutex
	items map[string]*entry
	// eviction order, front is evicted first
	order *list.List
	size  int64

	maxEntries int
	maxBytes   int64
	lru        bool
	logger     *logrus.Logger

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a store and, when cfg.SweepInterval > 0, starts its sweeper.
func New(cfg Config, logger *logrus.Logger) *Store {
	maxEntries := cfg.MaxEntries
	if maxEntries == 0 {
		maxEntries = defaultMaxEntries
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	s := &Store{
		items:      make(map[string]*entry),
		order:      list.New(),
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		lru:        cfg.EvictionPolicy == PolicyLRU,
		logger:     logger,
	}
	if cfg.SweepInterval > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.sweepLoop(cfg.SweepInterval)
	}
	return s
}

// Get returns the live value for key. Expired entries are removed on the spot
// and reported absent.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if !e.expiresAt.After(time.Now()) {
		s.removeLocked(e)
		s.expirations++
		s.misses++
		return nil, false
	}
	if s.lru {
		s.order.MoveToBack(e.elem)
	}
	s.hits++
	return e.value, true
}

// Set stores value for ttl, evicting in policy order until it fits. A value
// whose own estimate exceeds the byte budget is not stored; a non-positive
// ttl stores nothing. Set never fails.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	size := estimateSize(value)
	expiresAt := time.Now().Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxBytes > 0 && size > s.maxBytes {
		if e, ok := s.items[key]; ok {
			s.removeLocked(e)
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key, "size": size}).Debug("localstore: value exceeds byte budget, not cached")
		}
		return
	}
	if e, ok := s.items[key]; ok {
		s.size -= e.size
		e.value = value
		e.size = size
		e.expiresAt = expiresAt
		s.size += size
		// a replace keeps its original insertion slot under FIFO
		if s.lru {
			s.order.MoveToBack(e.elem)
		}
	} else {
		e := &entry{key: key, value: value, expiresAt: expiresAt, size: size}
		e.elem = s.order.PushBack(e)
		s.items[key] = e
		s.size += size
	}
	s.evictLocked()
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		return false
	}
	s.removeLocked(e)
	return true
}

// Clear drops every entry. It is the local side of pattern invalidation,
// which this tier cannot narrow to a pattern.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*entry)
	s.order.Init()
	s.size = 0
}

// Sweep removes every expired entry and returns how many were dropped.
func (s *Store) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry)
		if !e.expiresAt.After(now) {
			s.removeLocked(e)
			removed++
		}
		elem = next
	}
	s.expirations += uint64(removed)
	return removed
}

// Stats returns a snapshot of the store.
func (s *Store) Stats() ports.LocalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ports.LocalStats{
		Entries:     len(s.items),
		SizeBytes:   s.size,
		Hits:        s.hits,
		Misses:      s.misses,
		Evictions:   s.evictions,
		Expirations: s.expirations,
	}
}

// Close stops the sweeper. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.stop != nil {
			close(s.stop)
			<-s.done
		}
	})
}

func (s *Store) removeLocked(e *entry) {
	s.order.Remove(e.elem)
	delete(s.items, e.key)
	s.size -= e.size
}

func (s *Store) evictLocked() {
	for (s.maxEntries > 0 && len(s.items) > s.maxEntries) || (s.maxBytes > 0 && s.size > s.maxBytes) {
		front := s.order.Front()
		if front == nil {
			return
		}
		s.removeLocked(front.Value.(*entry))
		s.evictions++
	}
}

func (s *Store) sweepLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && s.logger != nil {
				s.logger.WithFields(logrus.Fields{"removed": n}).Debug("localstore: sweep removed expired entries")
			}
		case <-s.stop:
			return
		}
	}
}

// estimateSize approximates the serialized length of a value for capacity
// accounting. Unserializable values weigh fallbackWeight instead of failing.
func estimateSize(v any) int64 {
	b, err := json.Marshal(v)
	if err != nil {
		return fallbackWeight
	}
	return int64(len(b))
}

var _ ports.LocalStore = (*Store)(nil)
