package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// CreateOrder inserts the order header and returns the id assigned by the
// database. The order items are written by a separate CreateOrderItems call;
// the two writes are intentionally not one transaction, matching how the
// storefront has always submitted orders.
func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) (uuid.UUID, error) {
	query := `INSERT INTO orders
	          (customer_name, customer_email, customer_phone, shipping_address,
	           city, state, pincode, payment_method, status, total_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	          RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
		order.City,
		order.State,
		order.Pincode,
		order.PaymentMethod,
		order.Status,
		order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert order: %w", err)
	}

	return order.ID, nil
}

// CreateOrderItems bulk-inserts the frozen line snapshots for one order.
func (s *Store) CreateOrderItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	var (
		placeholders = make([]string, 0, len(items))
		args         = make([]interface{}, 0, len(items)*5)
	)
	for i, item := range items {
		base := i * 5
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price)
	}

	query := fmt.Sprintf(
		`INSERT INTO order_items (order_id, product_id, product_name, quantity, price) VALUES %s`,
		strings.Join(placeholders, ", "))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (s *Store) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, customer_name, customer_email, customer_phone, shipping_address,
	                 city, state, pincode, payment_method, status, total_amount, created_at, updated_at
	          FROM orders WHERE id = $1`

	var order domain.Order
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.City,
		&order.State,
		&order.Pincode,
		&order.PaymentMethod,
		&order.Status,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	return &order, nil
}

func (s *Store) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT order_id, product_id, product_name, quantity, price
	          FROM order_items WHERE order_id = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// ListRecentOrders is the admin back-office order list, newest first.
func (s *Store) ListRecentOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `SELECT id, customer_name, customer_email, customer_phone, shipping_address,
	                 city, state, pincode, payment_method, status, total_amount, created_at, updated_at
	          FROM orders ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&order.CustomerEmail,
			&order.CustomerPhone,
			&order.ShippingAddress,
			&order.City,
			&order.State,
			&order.Pincode,
			&order.PaymentMethod,
			&order.Status,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus moves an order to the given status and appends the
// matching timeline entry in one transaction.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, note string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_history (order_id, status, note, created_at) VALUES ($1, $2, $3, NOW())`,
		id, status, note)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

// ListStatusHistory returns an order's timeline, oldest first.
func (s *Store) ListStatusHistory(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error) {
	query := `SELECT order_id, status, note, created_at
	          FROM order_status_history WHERE order_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	var history []domain.StatusChange
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(&change.OrderID, &change.Status, &change.Note, &change.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history row: %w", err)
		}
		history = append(history, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return history, nil
}
