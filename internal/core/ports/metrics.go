package ports

import "time"

// CacheMetrics receives cache operation outcomes for instrumentation.
// Implementations must be safe for concurrent use; a nil CacheMetrics is
// valid and means metrics are disabled.
type CacheMetrics interface {
	// RecordHit counts a read served by the named tier ("local" or "remote").
	RecordHit(tier string)
	// RecordMiss counts a read that fell through to the fetch source.
	RecordMiss()
	// RecordRemoteError counts a swallowed remote failure for an operation
	// ("get", "set", "delete", "scan", "decode").
	RecordRemoteError(op string)
	// RecordFetch observes one fetch-source invocation.
	RecordFetch(d time.Duration, err error)
}
