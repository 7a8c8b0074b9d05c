package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

const topic = "order-events"

// Publisher writes order events to the messaging channel.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, OrderEvent{
		Type:          EventOrderPlaced,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status.String(),
		TotalAmount:   order.TotalAmount,
		OccurredAt:    time.Now(),
	})
}

func (p *Publisher) StatusChanged(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, OrderEvent{
		Type:          EventStatusChanged,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status.String(),
		TotalAmount:   order.TotalAmount,
		OccurredAt:    time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
