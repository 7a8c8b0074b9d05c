package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO order_notifications (order_id, customer_email, message, is_read, created_at)
	          VALUES ($1, $2, $3, FALSE, NOW())
	          RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query, n.OrderID, n.CustomerEmail, n.Message).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns a customer's newest notifications first.
func (s *Store) ListNotifications(ctx context.Context, customerEmail string, limit int) ([]domain.Notification, error) {
	query := `SELECT id, order_id, customer_email, message, is_read, created_at
	          FROM order_notifications WHERE customer_email = $1
	          ORDER BY created_at DESC LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, customerEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.CustomerEmail, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notifications, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE order_notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, customerEmail string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE order_notifications SET is_read = TRUE WHERE customer_email = $1 AND is_read = FALSE`,
		customerEmail)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
