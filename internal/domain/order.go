package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem represents an item in an order. The name and unit price are snapshots taken
// at order time, so later menu edits do not alter historic orders.
type OrderItem struct {
	ID          string
	MenuItemID  string
	ItemName    string
	Quantity    int
	UnitPrice   Money
	Notes       *string
	OptionsJSON *string
}

// Order represents a customer order at a venue. It owns its items exclusively and is
// mutated only through its methods, which re-check the invariants on every change.
type Order struct {
	ID         string
	VenueID    string
	TableID    *string
	TableLabel *string
	DeviceID   *string
	Pax        *int
	Notes      *string
	Status     Status
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderAttributes carries the optional fields of a new order.
type OrderAttributes struct {
	TableID    *string
	TableLabel *string
	DeviceID   *string
	Pax        *int
	Notes      *string
}

// NewOrder creates a new order with business rules applied. Status always starts at NEW.
func NewOrder(id, venueID string, items []OrderItem, attrs OrderAttributes, now time.Time) (*Order, error) {
	order := &Order{
		ID:         id,
		VenueID:    venueID,
		TableID:    attrs.TableID,
		TableLabel: attrs.TableLabel,
		DeviceID:   attrs.DeviceID,
		Pax:        attrs.Pax,
		Notes:      attrs.Notes,
		Status:     StatusNew,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rehydrates an order from storage, running the same validation as
// NewOrder so that invalid persisted state is caught instead of trusted.
func RestoreOrder(order Order) (*Order, error) {
	if _, err := ParseStatus(string(order.Status)); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}

// Validate applies the order invariants.
func (o *Order) Validate() error {
	if o.VenueID == "" {
		return &ValidationError{Field: "venue_id", Message: "order must reference a venue"}
	}

	if len(o.Items) < 1 {
		return &ValidationError{Field: "items", Message: "order must contain at least 1 item"}
	}

	currency := o.Items[0].UnitPrice.Currency()
	for i, item := range o.Items {
		if item.ItemName == "" {
			return &ValidationError{Field: fmt.Sprintf("items[%d].name", i), Message: "item name is required"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "item quantity must be greater than 0"}
		}
		if item.UnitPrice.Currency() != currency {
			return &ValidationError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "all items must share one currency"}
		}
	}

	if o.Pax != nil && *o.Pax < 1 {
		return &ValidationError{Field: "pax", Message: "party size must be greater than 0"}
	}

	return nil
}

// Total computes the sum of unit price times quantity over all items. It is derived on
// every read and never stored.
func (o *Order) Total() (Money, error) {
	if len(o.Items) == 0 {
		return Zero(DefaultCurrency), nil
	}

	total := Zero(o.Items[0].UnitPrice.Currency())
	for _, item := range o.Items {
		line, err := item.UnitPrice.Multiply(decimal.NewFromInt(int64(item.Quantity)))
		if err != nil {
			return Money{}, err
		}
		total, err = total.Add(line)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// IsFinal reports whether the order reached a terminal status.
func (o *Order) IsFinal() bool {
	return o.Status.IsFinal()
}

// UpdateStatus transitions the order to a new status. Notification fan-out is the
// caller's responsibility; the entity itself performs no I/O.
func (o *Order) UpdateStatus(newStatus Status, now time.Time) error {
	if !o.Status.CanTransitionTo(newStatus) {
		return &IllegalTransitionError{From: o.Status, To: newStatus}
	}

	o.Status = newStatus
	o.UpdatedAt = now
	return nil
}

// AddItem appends an item to the order.
func (o *Order) AddItem(item OrderItem, now time.Time) error {
	if o.IsFinal() {
		return ErrOrderFinalized
	}
	if item.ItemName == "" {
		return &ValidationError{Field: "item.name", Message: "item name is required"}
	}
	if item.Quantity < 1 {
		return &ValidationError{Field: "item.quantity", Message: "item quantity must be greater than 0"}
	}
	if item.UnitPrice.Currency() != o.Items[0].UnitPrice.Currency() {
		return &CurrencyMismatchError{Left: o.Items[0].UnitPrice.Currency(), Right: item.UnitPrice.Currency()}
	}

	o.Items = append(o.Items, item)
	o.UpdatedAt = now
	return nil
}

// RemoveItem removes the item with the given id. Removing the last item is rejected so
// an order can never become empty.
func (o *Order) RemoveItem(itemID string, now time.Time) error {
	if o.IsFinal() {
		return ErrOrderFinalized
	}

	idx := -1
	for i, item := range o.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrItemNotFound
	}
	if len(o.Items) == 1 {
		return ErrEmptyOrder
	}

	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	o.UpdatedAt = now
	return nil
}
