package cache

import (
	"context"
	"time"
)

// Flusher is the invalidation surface of a cache. Callers holding
// managers of different value types can flush them uniformly.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Manager is a generic TTL cache keyed by string-like keys.
type Manager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
