// Package cart implements the line-item store for one ordering
// session. A cart maps menu item ids to line items, preserves
// insertion order, and derives its totals instead of storing them.
//
// The cart itself has no durability. Callers subscribe to mutation
// notifications and mirror state wherever they need it (the session
// engine writes every mutation through to its persistence adapter).
package cart

import (
	"fmt"

	"golang.org/x/text/currency"

	"github.com/qikao/ordering/internal/menu"
	"github.com/qikao/ordering/internal/money"
)

// LineItem is one distinct menu item plus the quantity of it in the
// cart. Quantity is always >= 1 while the line exists; a line whose
// quantity would drop to zero is removed instead.
type LineItem struct {
	Item     menu.Item
	Quantity int
}

// Total returns unit price times quantity.
func (l LineItem) Total() money.Money {
	return l.Item.Price.MulInt(l.Quantity)
}

// Totals is the derived view of the whole cart.
type Totals struct {
	TotalItems int
	Subtotal   money.Money
}

// InvalidQuantityError reports an add with a quantity below 1.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d: must be at least 1", e.Quantity)
}

// Store owns the line items of one session.
//
// Not safe for concurrent use; the session engine serializes all
// mutations behind its own lock.
type Store struct {
	unit      currency.Unit
	order     []string // item ids, insertion order
	lines     map[string]*LineItem
	observers []func()
}

// NewStore creates an empty cart pricing in the given currency.
func NewStore(unit currency.Unit) *Store {
	return &Store{
		unit:  unit,
		lines: make(map[string]*LineItem),
	}
}

// Subscribe registers fn to run synchronously after every mutation,
// including mutations that leave the cart empty. Registration order
// is preserved.
func (s *Store) Subscribe(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *Store) notify() {
	for _, fn := range s.observers {
		fn()
	}
}

// AddItem inserts a line for the item or, if one exists, increases
// its quantity by qty. Quantities below 1 are rejected.
func (s *Store) AddItem(item menu.Item, qty int) error {
	if qty < 1 {
		return &InvalidQuantityError{Quantity: qty}
	}

	if line, ok := s.lines[item.ID]; ok {
		line.Quantity += qty
	} else {
		s.lines[item.ID] = &LineItem{Item: item, Quantity: qty}
		s.order = append(s.order, item.ID)
	}

	s.notify()
	return nil
}

// SetQuantity sets the line's quantity directly. A quantity of zero
// or below removes the line. Unknown ids are a no-op.
func (s *Store) SetQuantity(itemID string, qty int) {
	line, ok := s.lines[itemID]
	if !ok {
		return
	}

	if qty <= 0 {
		s.remove(itemID)
	} else {
		line.Quantity = qty
	}
	s.notify()
}

// RemoveItem deletes the line if present. Idempotent.
func (s *Store) RemoveItem(itemID string) {
	if _, ok := s.lines[itemID]; !ok {
		return
	}
	s.remove(itemID)
	s.notify()
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	if len(s.order) == 0 {
		return
	}
	s.order = s.order[:0]
	s.lines = make(map[string]*LineItem)
	s.notify()
}

func (s *Store) remove(itemID string) {
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Lines returns the line items in insertion order. The slice and its
// elements are copies.
func (s *Store) Lines() []LineItem {
	out := make([]LineItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int { return len(s.order) }

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool { return len(s.order) == 0 }

// Totals recomputes {totalItems, subtotal} from the current lines.
// Pure; no side effects.
func (s *Store) Totals() Totals {
	subtotal := money.Zero(s.unit)
	items := 0
	for _, id := range s.order {
		line := s.lines[id]
		items += line.Quantity
		// Same-currency by construction: all prices come from one catalog.
		subtotal.Amount = subtotal.Amount.Add(line.Total().Amount)
	}
	return Totals{TotalItems: items, Subtotal: subtotal}
}
