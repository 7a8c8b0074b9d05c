package cart

import (
	"github.com/google/uuid"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

// Ledger holds the cart lines of one session, unique by product id, in the
// order they were first added. All amounts are in paise so totals stay exact
// no matter how many mutations the cart goes through.
//
// The ledger itself never touches storage; Service persists the full line set
// after every mutation.
type Ledger struct {
	lines []domain.CartLine
}

func NewLedger(lines []domain.CartLine) *Ledger {
	return &Ledger{lines: lines}
}

// Add inserts a new line with the given quantity, or increments the quantity
// of the existing line for the same product. It always succeeds.
func (l *Ledger) Add(line domain.CartLine, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range l.lines {
		if l.lines[i].ProductID == line.ProductID {
			l.lines[i].Quantity += qty
			return
		}
	}
	line.Quantity = qty
	l.lines = append(l.lines, line)
}

// SetQuantity overwrites the quantity of an existing line. A quantity below 1
// removes the line. Unknown product ids are a no-op.
func (l *Ledger) SetQuantity(productID uuid.UUID, qty int) {
	if qty < 1 {
		l.Remove(productID)
		return
	}
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines[i].Quantity = qty
			return
		}
	}
}

// Remove deletes the line for the given product if present.
func (l *Ledger) Remove(productID uuid.UUID) {
	for i := range l.lines {
		if l.lines[i].ProductID == productID {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Subtotal returns the sum of unit price times quantity over all lines,
// in paise.
func (l *Ledger) Subtotal() int64 {
	var total int64
	for _, line := range l.lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (l *Ledger) ItemCount() int {
	var count int
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

func (l *Ledger) Empty() bool {
	return len(l.lines) == 0
}

// Lines returns a copy of the line set so callers cannot mutate the ledger
// behind its back.
func (l *Ledger) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(l.lines))
	copy(out, l.lines)
	return out
}
