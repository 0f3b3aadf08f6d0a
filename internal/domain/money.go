package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a caller does not specify one.
const DefaultCurrency = "USD"

// Money is an immutable non-negative amount tagged with a 3-letter currency code.
// Arithmetic between different currencies fails fast with CurrencyMismatchError.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value from a decimal amount.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, &InvalidMoneyError{Reason: fmt.Sprintf("currency code must be 3 characters, got %q", currency)}
	}
	if amount.IsNegative() {
		return Money{}, &InvalidMoneyError{Reason: fmt.Sprintf("amount must not be negative, got %s", amount)}
	}
	return Money{amount: amount, currency: currency}, nil
}

// MoneyFromFloat creates a Money value from a float amount.
func MoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, &CurrencyMismatchError{Left: m.currency, Right: other.currency}
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, &CurrencyMismatchError{Left: m.currency, Right: other.currency}
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, &InvalidMoneyError{Reason: "subtraction result must not be negative"}
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Multiply scales the amount by an arbitrary factor, typically an item quantity.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	result := m.amount.Mul(factor)
	if result.IsNegative() {
		return Money{}, &InvalidMoneyError{Reason: "multiplication result must not be negative"}
	}
	return Money{amount: result, currency: m.currency}, nil
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, &CurrencyMismatchError{Left: m.currency, Right: other.currency}
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, &CurrencyMismatchError{Left: m.currency, Right: other.currency}
	}
	return m.amount.LessThan(other.amount), nil
}

func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String renders the amount with two decimal places, e.g. "12.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
