package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an exact decimal amount in a single currency.
// Arithmetic never goes through float64; display rounding happens
// only at formatting time.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// New builds a Money from a decimal string such as "2.99".
// Panics on a malformed literal, so it is meant for constants and
// catalog data that has already been validated.
func New(amount string, unit currency.Unit) Money {
	return Money{Amount: decimal.RequireFromString(amount), Currency: unit}
}

// Zero returns the zero amount in the given currency.
func Zero(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

// Add returns m + other. Mixing currencies is a programming error and
// returns an error rather than silently summing unlike units.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// MulInt returns m scaled by an integer quantity.
func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Equal reports amount and currency equality.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String renders the amount with its currency code, two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}
