package interfaces

import (
	"context"
	"time"

	"github.com/tably/tably/internal/domain"
)

// Команды для сервисов
type CreateOrderCommand struct {
	VenueID    string
	TableID    *string
	TableLabel *string
	DeviceID   *string
	Pax        *int
	Notes      *string
	Items      []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	MenuItemID  string
	Name        string
	Quantity    int
	UnitPrice   float64
	Currency    string
	Notes       *string
	OptionsJSON *string
}

type ChangeStatusCommand struct {
	OrderID   string
	Status    string
	ChangedBy string
}

type ChangeStatusResult struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterSubscriptionCommand struct {
	DeviceID string
	VenueID  string
	Endpoint string
	Auth     string
	P256dh   string
}

// Интерфейсы сервисов (Business Logic)
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetStatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error)
	ListByVenue(ctx context.Context, venueID string) ([]*domain.Order, error)
	ListByDevice(ctx context.Context, deviceID string) ([]*domain.Order, error)
}

type StatusService interface {
	ChangeStatus(ctx context.Context, cmd ChangeStatusCommand) (ChangeStatusResult, error)
}

type SubscriptionService interface {
	Register(ctx context.Context, cmd RegisterSubscriptionCommand) (*domain.PushSubscription, error)
	Remove(ctx context.Context, id string) error
}
