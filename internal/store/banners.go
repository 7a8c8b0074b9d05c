package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// ActiveBanners returns the active banners, newest first. An empty kind
// matches all kinds.
func (s *Store) ActiveBanners(ctx context.Context, kind domain.BannerKind) ([]domain.Banner, error) {
	query := `SELECT id, kind, title, message, image_url, is_active, created_at
	          FROM banners WHERE ($1 = '' OR kind = $1) AND is_active = TRUE
	          ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("query banners: %w", err)
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Kind, &b.Title, &b.Message, &b.ImageURL, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan banner row: %w", err)
		}
		banners = append(banners, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return banners, nil
}

func (s *Store) CreateBanner(ctx context.Context, b *domain.Banner) error {
	query := `INSERT INTO banners (kind, title, message, image_url, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query, b.Kind, b.Title, b.Message, b.ImageURL, b.IsActive).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

func (s *Store) DeactivateBanner(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE banners SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate banner: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate banner: %w", err)
	}
	if affected == 0 {
		return ErrBannerNotFound
	}
	return nil
}
