package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/cart"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/delivery"
	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// OrderWriter is the slice of the row store the submitter writes through.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) (uuid.UUID, error)
	CreateOrderItems(ctx context.Context, items []domain.OrderItem) error
}

// CartAccess reads and clears the session cart.
type CartAccess interface {
	Get(ctx context.Context, sessionID string) (*cart.Ledger, error)
	Clear(ctx context.Context, sessionID string) (*cart.Ledger, error)
}

// OptionSource supplies the active delivery options.
type OptionSource interface {
	Active(ctx context.Context) ([]domain.DeliveryOption, error)
}

// EventPublisher announces a placed order on the messaging channel.
// Publishing is best effort; a failed announcement never fails the order.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
}

type Confirmation struct {
	OrderID     uuid.UUID `json:"order_id"`
	TotalAmount int64     `json:"total_amount"`
}

// Submitter turns a session cart plus a shipping/payment form into persisted
// order records.
//
// The order header and its items are two dependent writes, not one
// transaction: if the items insert fails after the header went in, an order
// without items is left behind and the error is surfaced. That mirrors the
// storefront's historical behavior; collapsing the two writes (or adding an
// idempotency key) is a deliberate non-change until the intended semantics
// are settled.
type Submitter struct {
	orders  OrderWriter
	carts   CartAccess
	options OptionSource
	events  EventPublisher
	sfg     singleflight.Group
}

func NewSubmitter(orders OrderWriter, carts CartAccess, options OptionSource, events EventPublisher) *Submitter {
	return &Submitter{
		orders:  orders,
		carts:   carts,
		options: options,
		events:  events,
	}
}

// Submit places an order for the session's cart. Concurrent submits for the
// same session collapse into one flight, so a double click cannot create two
// orders; both callers get the same confirmation.
//
// On any failure the cart is left untouched so the customer can retry.
func (s *Submitter) Submit(ctx context.Context, sessionID string, form Form) (*Confirmation, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		return s.submit(ctx, sessionID, form)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Confirmation), nil
}

func (s *Submitter) submit(ctx context.Context, sessionID string, form Form) (*Confirmation, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	ledger, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if ledger.Empty() {
		return nil, ErrEmptyCart
	}

	options, err := s.options.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery options: %w", err)
	}

	subtotal := ledger.Subtotal()
	charge := delivery.Resolve(form.DeliveryOptionID, subtotal, options)

	order := &domain.Order{
		CustomerName:    form.Name,
		CustomerEmail:   form.Email,
		CustomerPhone:   form.Phone,
		ShippingAddress: form.Address,
		City:            form.City,
		State:           form.State,
		Pincode:         form.Pincode,
		PaymentMethod:   form.PaymentMethod,
		Status:          domain.OrderStatusPending,
		TotalAmount:     subtotal + charge,
	}

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	lines := ledger.Lines()
	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			OrderID:     orderID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.Price,
		}
	}

	if err := s.orders.CreateOrderItems(ctx, items); err != nil {
		// The header for orderID now exists without items; see the type doc.
		return nil, fmt.Errorf("failed to create items for order %s: %w", orderID, err)
	}

	if s.events != nil {
		if errPub := s.events.OrderPlaced(ctx, order); errPub != nil {
			log.Printf("failed to publish order placed event for %s: %v", orderID, errPub)
		}
	}

	if _, errClear := s.carts.Clear(ctx, sessionID); errClear != nil {
		// The order went through; an uncleared cart is an annoyance, not a
		// failure.
		log.Printf("failed to clear cart for session %s after order %s: %v", sessionID, orderID, errClear)
	}

	return &Confirmation{
		OrderID:     orderID,
		TotalAmount: order.TotalAmount,
	}, nil
}
