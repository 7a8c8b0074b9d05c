package delivery

import (
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// Resolve picks the delivery charge for a cart subtotal against the active
// option list. It is a pure function and is recomputed on every cart or
// selection change, so a charge can never go stale.
//
// Rules:
//   - no options at all: charge 0
//   - unset or unknown selected id: fall back to the first option
//   - free option with a minimum: free once subtotal reaches the minimum
//     (inclusive), otherwise the first non-free option's standard rate, or 0
//     when no paid option is configured
//   - free option without a minimum: always free
//   - paid option: its configured charge
func Resolve(selectedID uuid.UUID, subtotal int64, options []domain.DeliveryOption) int64 {
	if len(options) == 0 {
		return 0
	}

	selected := options[0]
	if selectedID != uuid.Nil {
		for _, opt := range options {
			if opt.ID == selectedID {
				selected = opt
				break
			}
		}
	}

	if selected.IsFree {
		if selected.MinOrderAmount == nil {
			return 0 // every order qualifies
		}
		if subtotal >= *selected.MinOrderAmount {
			return 0
		}
		return fallbackCharge(options)
	}

	return selected.Charge
}

// fallbackCharge is the standard rate applied when a free-above-threshold
// option does not qualify: the first configured non-free option.
func fallbackCharge(options []domain.DeliveryOption) int64 {
	for _, opt := range options {
		if !opt.IsFree {
			return opt.Charge
		}
	}
	return 0
}
