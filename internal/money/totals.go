package money

import "github.com/shopspring/decimal"

// VAT is charged on the subtotal at checkout time.
var vatRate = decimal.RequireFromString("0.16")

// DeliveryFee is the flat fee added to every delivered order.
const deliveryFeeLiteral = "2.99"

// OrderTotals is the full charge breakdown shown on the order summary.
// Every field is derived from the subtotal; none is stored.
type OrderTotals struct {
	Subtotal    Money
	DeliveryFee Money
	VAT         Money
	Total       Money
}

// ComputeTotals derives fee, VAT and grand total from a subtotal.
// VAT is 16% of the subtotal; the delivery fee is flat.
func ComputeTotals(subtotal Money) OrderTotals {
	fee := New(deliveryFeeLiteral, subtotal.Currency)
	vat := Money{Amount: subtotal.Amount.Mul(vatRate).Round(2), Currency: subtotal.Currency}

	total := subtotal.Amount.Add(fee.Amount).Add(vat.Amount)
	return OrderTotals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		VAT:         vat,
		Total:       Money{Amount: total, Currency: subtotal.Currency},
	}
}
