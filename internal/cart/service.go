package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart/cache"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart/snapshot"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// Service loads and persists one Ledger per session. Mutations always go
// through the snapshot store (the cache is invalidated, never written on the
// mutation path), so the store stays the single source of truth. A session
// only ever has one writer: the customer driving it.
type Service struct {
	snapshots snapshot.Store
	cache     cache.CartCache
	sfg       singleflight.Group // Prevents cache stampede
}

func NewService(snapshots snapshot.Store, cache cache.CartCache) *Service {
	return &Service{
		snapshots: snapshots,
		cache:     cache,
	}
}

// Get hydrates the session's ledger, preferring the cache. A session with no
// stored snapshot gets an empty ledger, never an error.
func (s *Service) Get(ctx context.Context, sessionID string) (*Ledger, error) {
	// Use singleflight so concurrent cache misses for the same session hit
	// the snapshot store once.
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		lines, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return NewLedger(lines), nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cart cache get error: %v", err) // log cache error but continue
		}

		lines, errGet := s.snapshots.Get(ctx, sessionID)
		if errGet != nil {
			if errors.Is(errGet, snapshot.ErrSnapshotNotFound) {
				return NewLedger(nil), nil
			}
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), sessionID, lines)
			if errSet != nil {
				log.Printf("cart cache set error: %v", errSet)
			}
		}()

		return NewLedger(lines), nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Ledger), nil
}

// Add puts qty units of the given product into the session's cart and
// persists the full line set.
func (s *Service) Add(ctx context.Context, sessionID string, line domain.CartLine, qty int) (*Ledger, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) {
		l.Add(line, qty)
	})
}

// SetQuantity overwrites a line's quantity; qty below 1 removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*Ledger, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) {
		l.SetQuantity(productID, qty)
	})
}

// Remove deletes a line; unknown product ids are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*Ledger, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) {
		l.Remove(productID)
	})
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (*Ledger, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) {
		l.Clear()
	})
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Ledger)) (*Ledger, error) {
	lines, err := s.snapshots.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, snapshot.ErrSnapshotNotFound) {
		log.Printf("cart snapshot get error: %v", err)
		return nil, err
	}

	ledger := NewLedger(lines)
	fn(ledger)

	if errPut := s.snapshots.Put(ctx, sessionID, ledger.Lines()); errPut != nil {
		log.Printf("cart snapshot put error: %v", errPut)
		return nil, errPut
	}

	s.invalidateCache(sessionID)
	return ledger, nil
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}
