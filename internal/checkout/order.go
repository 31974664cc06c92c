package checkout

import (
	"time"

	"github.com/qikao/ordering/internal/cart"
	"github.com/qikao/ordering/internal/money"
)

// PlacedOrder is the immutable artifact of a completed checkout: a
// snapshot of the lines and totals at commit time plus a display id.
// It is not persisted; the confirmation view and the completion
// callback are its only consumers.
type PlacedOrder struct {
	OrderID  string
	Lines    []cart.LineItem
	Totals   money.OrderTotals
	Delivery DeliveryForm
	Method   PaymentMethod
	PlacedAt time.Time
}

// finalize captures the order artifact. Pure with respect to its
// inputs; the machine performs the clears around it as one unit.
//
// Rejects an empty cart. The state machine cannot reach finalization
// with an empty cart, but the invariant is enforced here regardless.
func finalize(lines []cart.LineItem, subtotal money.Money, delivery DeliveryForm,
	method PaymentMethod, id string, at time.Time) (PlacedOrder, error) {

	if len(lines) == 0 {
		return PlacedOrder{}, &Error{Code: CodeEmptyCart, Message: "cannot place an order with no items"}
	}

	snapshot := make([]cart.LineItem, len(lines))
	copy(snapshot, lines)

	return PlacedOrder{
		OrderID:  id,
		Lines:    snapshot,
		Totals:   money.ComputeTotals(subtotal),
		Delivery: delivery,
		Method:   method,
		PlacedAt: at,
	}, nil
}
