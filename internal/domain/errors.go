package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrSubscriptionNotFound = errors.New("push subscription not found")
	ErrOrderFinalized       = errors.New("order is finalized and cannot be modified")
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrItemNotFound         = errors.New("order item not found")
)

// ValidationError reports malformed input on a specific field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// InvalidStatusError is returned when a string is not one of the known status literals.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Value)
}

// IllegalTransitionError is returned when the status transition table forbids a change.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s", e.From, e.To)
}

// InvalidMoneyError reports a monetary value that violates the Money invariants.
type InvalidMoneyError struct {
	Reason string
}

func (e *InvalidMoneyError) Error() string {
	return fmt.Sprintf("invalid money value: %s", e.Reason)
}

// CurrencyMismatchError is returned on arithmetic between different currencies.
type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}
