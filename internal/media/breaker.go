package media

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerStorage wraps an ObjectStorage with a circuit breaker so a
// misbehaving storage backend fails admin uploads fast instead of tying up
// request handlers.
type BreakerStorage struct {
	inner ObjectStorage
	cb    *gobreaker.CircuitBreaker[string]
}

func NewBreakerStorage(inner ObjectStorage) *BreakerStorage {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &BreakerStorage{inner: inner, cb: cb}
}

func (b *BreakerStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.Upload(ctx, path, data, contentType)
	})
}
