package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// AddToWishlist saves a product against a customer key (the session id).
// The unique constraint makes a repeat add a detectable no-op.
func (s *Store) AddToWishlist(ctx context.Context, customerKey string, productID uuid.UUID) error {
	query := `INSERT INTO wishlist (customer_key, product_id, created_at) VALUES ($1, $2, NOW())`

	if _, err := s.db.ExecContext(ctx, query, customerKey, productID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyInWishlist
		}
		return fmt.Errorf("insert wishlist entry: %w", err)
	}
	return nil
}

func (s *Store) RemoveFromWishlist(ctx context.Context, customerKey string, productID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist WHERE customer_key = $1 AND product_id = $2`, customerKey, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist entry: %w", err)
	}
	return nil
}

// ListWishlist returns the wished-for products themselves, not the join rows.
func (s *Store) ListWishlist(ctx context.Context, customerKey string) ([]*domain.Product, error) {
	query := `SELECT p.id, p.name, p.description, p.price, p.original_price, p.image_url, p.category, p.stock, p.featured, p.created_at
	          FROM wishlist w
	          JOIN products p ON p.id = w.product_id
	          WHERE w.customer_key = $1
	          ORDER BY w.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, customerKey)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}
