package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// ProductFilter narrows ListProducts. Zero value means the full catalog.
type ProductFilter struct {
	Category     string
	FeaturedOnly bool
}

func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := `SELECT id, name, description, price, original_price, image_url, category, stock, featured, created_at
	          FROM products WHERE 1=1`
	var args []interface{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.FeaturedOnly {
		query += " AND featured = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
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

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT id, name, description, price, original_price, image_url, category, stock, featured, created_at
	          FROM products WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) (uuid.UUID, error) {
	query := `INSERT INTO products (name, description, price, original_price, image_url, category, stock, featured, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	          RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.OriginalPrice, p.ImageURL, p.Category, p.Stock, p.Featured,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET name = $1, description = $2, price = $3, original_price = $4,
	              image_url = $5, category = $6, stock = $7, featured = $8
	          WHERE id = $9`

	result, err := s.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.OriginalPrice, p.ImageURL, p.Category, p.Stock, p.Featured, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetProductImage updates just the image_url, used after a media upload.
func (s *Store) SetProductImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET image_url = $1 WHERE id = $2`, imageURL, id)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p             domain.Product
		description   sql.NullString
		originalPrice sql.NullInt64
		imageURL      sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Price,
		&originalPrice,
		&imageURL,
		&p.Category,
		&p.Stock,
		&p.Featured,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product row: %w", err)
	}

	p.Description = description.String
	p.ImageURL = imageURL.String
	if originalPrice.Valid {
		p.OriginalPrice = &originalPrice.Int64
	}
	return &p, nil
}
