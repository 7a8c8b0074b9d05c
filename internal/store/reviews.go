package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// ListProductReviews returns a product's reviews, newest first.
func (s *Store) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	query := `SELECT id, product_id, customer_key, rating, review_text, created_at
	          FROM product_reviews WHERE product_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query product reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.CustomerKey, &r.Rating, &r.ReviewText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}

// UpsertProductReview writes a customer's review of a product. A customer has
// one review slot per product; submitting again overwrites the rating and
// text in place.
func (s *Store) UpsertProductReview(ctx context.Context, r *domain.Review) error {
	query := `INSERT INTO product_reviews (product_id, customer_key, rating, review_text, created_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          ON CONFLICT (product_id, customer_key) DO UPDATE SET
	              rating = EXCLUDED.rating,
	              review_text = EXCLUDED.review_text
	          RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query, r.ProductID, r.CustomerKey, r.Rating, r.ReviewText).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert product review: %w", err)
	}
	return nil
}

// DeleteProductReview removes the customer's own review of a product.
func (s *Store) DeleteProductReview(ctx context.Context, productID uuid.UUID, customerKey string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM product_reviews WHERE product_id = $1 AND customer_key = $2`, productID, customerKey)
	if err != nil {
		return fmt.Errorf("delete product review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product review: %w", err)
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
