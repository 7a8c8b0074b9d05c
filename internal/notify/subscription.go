package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Subscription is a live feed of order events. Callers receive the handle,
// range over Events, and must Close it when done; the feed is a capability
// handed out, not something the receiver owns.
type Subscription struct {
	events chan OrderEvent
	reader *kafka.Reader
	cancel context.CancelFunc
}

// Subscribe opens a consumer-group subscription on the order-events topic.
// Each groupID sees every event once.
func Subscribe(groupID string, brokers ...string) *Subscription {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})

	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		events: make(chan OrderEvent, 16),
		reader: reader,
		cancel: cancel,
	}

	go sub.pump(ctx)
	return sub
}

// Events delivers decoded order events until Close is called.
func (s *Subscription) Events() <-chan OrderEvent {
	return s.events
}

// Close stops the feed and releases the underlying reader.
func (s *Subscription) Close() error {
	s.cancel()
	return s.reader.Close()
}

func (s *Subscription) pump(ctx context.Context) {
	defer close(s.events)
	for {
		m, err := s.reader.ReadMessage(ctx)
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
			continue
		}

		select {
		case s.events <- event:
		case <-ctx.Done():
			return
		}
	}
}
