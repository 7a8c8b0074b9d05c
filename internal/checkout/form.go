package checkout

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// Form carries the shipping and payment details collected at checkout.
// DeliveryOptionID may be Nil, in which case the first configured option
// applies.
type Form struct {
	Name             string
	Email            string
	Phone            string
	Address          string
	City             string
	State            string
	Pincode          string
	PaymentMethod    domain.PaymentMethod
	DeliveryOptionID uuid.UUID
}

// Validate checks the form before any write is attempted.
func (f *Form) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"phone", f.Phone},
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"pincode", f.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "required"}
		}
	}

	if _, err := mail.ParseAddress(f.Email); err != nil {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}

	if !f.PaymentMethod.Valid() {
		return &ValidationError{Field: "payment_method", Reason: "must be cod, upi or card"}
	}

	return nil
}
