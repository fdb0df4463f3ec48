package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable monetary amount in a single currency.
//
// Amounts carry full decimal precision through intermediate calculations;
// call Round to snap to the currency's minor units at a reporting boundary.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// New builds a Money from a decimal amount.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// FromFloat builds a USD Money from a float value.
func FromFloat(v float64) Money {
	return Money{Amount: decimal.NewFromFloat(v), Currency: USD}
}

// FromFloatCurrency builds a Money in the given currency from a float value.
func FromFloatCurrency(v float64, currency Currency) Money {
	return Money{Amount: decimal.NewFromFloat(v), Currency: currency}
}

// FromString parses a decimal string like "100.50" into a USD Money.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("money.FromString: %w", err)
	}
	return Money{Amount: d, Currency: USD}, nil
}

// Zero returns a zero USD amount.
func Zero() Money {
	return Money{Amount: decimal.Zero, Currency: USD}
}

// ZeroIn returns a zero amount in the given currency.
func ZeroIn(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

func (m Money) assertSameCurrency(other Money, op string) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: %s requires matching currencies, got %s and %s",
			op, m.Currency, other.Currency))
	}
}

// Add returns m + other. Panics on a currency mismatch: mixed-currency
// arithmetic is a programming error, not an input condition.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other, "Add")
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	m.assertSameCurrency(other, "Sub")
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// MulFloat returns m scaled by a float factor.
func (m Money) MulFloat(f float64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromFloat(f)), Currency: m.Currency}
}

// MulDecimal returns m scaled by a decimal factor.
func (m Money) MulDecimal(d decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(d), Currency: m.Currency}
}

// DivInt returns m divided by an integer count.
func (m Money) DivInt(n int) Money {
	return Money{Amount: m.Amount.Div(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// DivFloat returns m divided by a float divisor.
func (m Money) DivFloat(f float64) Money {
	return Money{Amount: m.Amount.Div(decimal.NewFromFloat(f)), Currency: m.Currency}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	return Money{Amount: m.Amount.Abs(), Currency: m.Currency}
}

// Round snaps the amount to the currency's minor units (half up).
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(m.Currency.MinorUnits), Currency: m.Currency}
}

// Cmp compares amounts: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	m.assertSameCurrency(other, "Cmp")
	return m.Amount.Cmp(other.Amount)
}

func (m Money) Equal(other Money) bool       { return m.Cmp(other) == 0 }
func (m Money) LessThan(other Money) bool    { return m.Cmp(other) < 0 }
func (m Money) GreaterThan(other Money) bool { return m.Cmp(other) > 0 }

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// Float64 returns the amount as a float64, losing decimal exactness.
func (m Money) Float64() float64 {
	return m.Amount.InexactFloat64()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(m.Currency.MinorUnits), m.Currency)
}
