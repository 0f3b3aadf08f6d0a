package interfaces

import (
	"context"

	"github.com/tably/tably/internal/domain"
)

// Репозитории (Adapter/Postgres)
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByVenue(ctx context.Context, venueID string) ([]*domain.Order, error)
	ListByDevice(ctx context.Context, deviceID string) ([]*domain.Order, error)
	UpdateStatusWithLog(ctx context.Context, order *domain.Order, changedBy string) error
	GetStatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.PushSubscription) error
	FindByDevice(ctx context.Context, deviceID string) ([]*domain.PushSubscription, error)
	Delete(ctx context.Context, id string) error
}
