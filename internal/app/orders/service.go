package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/clock"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

type Service struct {
	repo   interfaces.OrderRepository
	logger logger.Logger
	clock  clock.Clock
}

func NewService(repo interfaces.OrderRepository, logger logger.Logger, clk clock.Clock) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		clock:  clk,
	}
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	// 1. Преобразование команды в доменные модели
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		price, err := domain.MoneyFromFloat(item.UnitPrice, item.Currency)
		if err != nil {
			return nil, err
		}
		items[i] = domain.OrderItem{
			ID:          uuid.NewString(),
			MenuItemID:  item.MenuItemID,
			ItemName:    item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			Notes:       item.Notes,
			OptionsJSON: item.OptionsJSON,
		}
	}

	attrs := domain.OrderAttributes{
		TableID:    cmd.TableID,
		TableLabel: cmd.TableLabel,
		DeviceID:   cmd.DeviceID,
		Pax:        cmd.Pax,
		Notes:      cmd.Notes,
	}

	// 2. Создание доменной сущности (здесь происходит валидация инвариантов)
	order, err := domain.NewOrder(uuid.NewString(), cmd.VenueID, items, attrs, s.clock.Now())
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", nil, err)
		return nil, err
	}

	// 3. Сохранение в БД (транзакционно вместе с первой записью лога статусов)
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", "", nil, err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Debug("order_created", "Order created in DB", "", map[string]interface{}{
		"order_id": order.ID,
		"venue_id": order.VenueID,
	})

	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetStatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error) {
	// Проверяем существование заказа, чтобы вернуть 404 вместо пустого списка
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, orderID)
}

func (s *Service) ListByVenue(ctx context.Context, venueID string) ([]*domain.Order, error) {
	return s.repo.ListByVenue(ctx, venueID)
}

func (s *Service) ListByDevice(ctx context.Context, deviceID string) ([]*domain.Order, error) {
	return s.repo.ListByDevice(ctx, deviceID)
}
