package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// NotificationWriter is the slice of the row store the consumer writes
// notification rows through.
type NotificationWriter interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
}

// Consumer reads order events and turns them into order_notifications rows
// so customers see updates even when they were not connected at the time.
type Consumer struct {
	store  NotificationWriter
	reader *kafka.Reader
}

func NewConsumer(store NotificationWriter, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "notification-writer",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{store, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("error reading message: %v\n", err)
		return
	}

	var event OrderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		fmt.Printf("error parsing message: %v\n", err)
		return
	}

	notification := NotificationFor(event)
	if notification == nil {
		fmt.Printf("ignoring event type %q\n", event.Type)
		return
	}

	if err := c.store.CreateNotification(ctx, notification); err != nil {
		fmt.Printf("failed to create notification for order %s: %v\n", event.OrderID, err)
		return
	}
}

// NotificationFor maps an order event to the notification row it should
// produce, or nil for event types that do not notify.
func NotificationFor(event OrderEvent) *domain.Notification {
	var message string
	switch event.Type {
	case EventOrderPlaced:
		message = fmt.Sprintf("Your order %s has been placed.", shortID(event.OrderID))
	case EventStatusChanged:
		message = fmt.Sprintf("Your order %s is now %s.", shortID(event.OrderID), event.Status)
	default:
		return nil
	}

	return &domain.Notification{
		OrderID:       event.OrderID,
		CustomerEmail: event.CustomerEmail,
		Message:       message,
	}
}

// shortID is the display form of an order id, the first 8 hex chars
// uppercased, same as the confirmation page shows.
func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) < 8 {
		return s
	}
	return strings.ToUpper(s[:8])
}
