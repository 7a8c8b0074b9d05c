package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// ActiveDeliveryOptions returns the options shown at checkout, ordered the
// way the admin arranged them.
func (s *Store) ActiveDeliveryOptions(ctx context.Context) ([]domain.DeliveryOption, error) {
	query := `SELECT id, name, charge, min_order_amount, is_free, is_active, display_order
	          FROM delivery_settings WHERE is_active = TRUE ORDER BY display_order`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query delivery options: %w", err)
	}
	defer rows.Close()

	var options []domain.DeliveryOption
	for rows.Next() {
		var (
			opt       domain.DeliveryOption
			minAmount sql.NullInt64
		)
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.Charge, &minAmount, &opt.IsFree, &opt.IsActive, &opt.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan delivery option row: %w", err)
		}
		if minAmount.Valid {
			opt.MinOrderAmount = &minAmount.Int64
		}
		options = append(options, opt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return options, nil
}

// UpsertDeliveryOption creates or overwrites one delivery_settings row from
// the admin back-office.
func (s *Store) UpsertDeliveryOption(ctx context.Context, opt *domain.DeliveryOption) error {
	var minAmount sql.NullInt64
	if opt.MinOrderAmount != nil {
		minAmount = sql.NullInt64{Int64: *opt.MinOrderAmount, Valid: true}
	}

	query := `INSERT INTO delivery_settings (id, name, charge, min_order_amount, is_free, is_active, display_order)
	          VALUES (COALESCE(NULLIF($1, '00000000-0000-0000-0000-000000000000'::uuid), gen_random_uuid()), $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE SET
	              name = EXCLUDED.name,
	              charge = EXCLUDED.charge,
	              min_order_amount = EXCLUDED.min_order_amount,
	              is_free = EXCLUDED.is_free,
	              is_active = EXCLUDED.is_active,
	              display_order = EXCLUDED.display_order
	          RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		opt.ID, opt.Name, opt.Charge, minAmount, opt.IsFree, opt.IsActive, opt.DisplayOrder,
	).Scan(&opt.ID)
	if err != nil {
		return fmt.Errorf("upsert delivery option: %w", err)
	}
	return nil
}
