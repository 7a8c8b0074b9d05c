package snapshot

import (
	"context"
	"errors"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Store is the durable home of a session's cart. The full line set is
// overwritten on every Put; Get returns ErrSnapshotNotFound for sessions
// that never had a cart.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Put(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}
