package orderstatus

import (
	"context"
	"fmt"
	"time"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/clock"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
	"github.com/tably/tably/internal/metrics"
)

// Service orchestrates the status-change use case: load, validate, persist, then
// fan out notifications in the background.
type Service struct {
	repo          interfaces.OrderRepository
	broadcaster   interfaces.Broadcaster
	push          interfaces.PushSender
	logger        logger.Logger
	clock         clock.Clock
	notifyTimeout time.Duration
}

func NewService(
	repo interfaces.OrderRepository,
	broadcaster interfaces.Broadcaster,
	push interfaces.PushSender,
	logger logger.Logger,
	clk clock.Clock,
	notifyTimeout time.Duration,
) *Service {
	return &Service{
		repo:          repo,
		broadcaster:   broadcaster,
		push:          push,
		logger:        logger,
		clock:         clk,
		notifyTimeout: notifyTimeout,
	}
}

func (s *Service) ChangeStatus(ctx context.Context, cmd interfaces.ChangeStatusCommand) (interfaces.ChangeStatusResult, error) {
	// 1. Загрузка заказа
	order, err := s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return interfaces.ChangeStatusResult{}, err
	}

	// 2. Разбор запрошенного статуса (ошибка клиента, не нарушение переходов)
	newStatus, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return interfaces.ChangeStatusResult{}, err
	}

	// 3. Переход в домене
	if err := order.UpdateStatus(newStatus, s.clock.Now()); err != nil {
		return interfaces.ChangeStatusResult{}, err
	}

	// 4. Сохранение (транзакционно вместе с логом статусов). Ошибка фатальна,
	// side effects не запускаются.
	if err := s.repo.UpdateStatusWithLog(ctx, order, cmd.ChangedBy); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to persist status change", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
		return interfaces.ChangeStatusResult{}, fmt.Errorf("failed to update order status: %w", err)
	}

	metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()
	s.logger.Debug("status_changed", fmt.Sprintf("Order %s moved to %s", order.ID, newStatus), "", map[string]interface{}{
		"order_id": order.ID,
		"status":   string(newStatus),
	})

	// 5. Уведомления: отсоединяемся от запроса, ошибки логируем и глотаем.
	// Сохраненный статус авторитетен, доставка уведомлений best-effort.
	s.notifyAsync(order.VenueID, order.ID, newStatus, order.DeviceID)

	return interfaces.ChangeStatusResult{
		OrderID:   order.ID,
		Status:    string(newStatus),
		UpdatedAt: order.UpdatedAt,
	}, nil
}

// notifyAsync runs the fan-out on its own context with a bounded timeout, so a hung
// broadcast or push endpoint can never block or fail the caller's status change.
func (s *Service) notifyAsync(venueID, orderID string, status domain.Status, deviceID *string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		event := interfaces.StatusEvent{
			Type:    interfaces.EventTypeOrderStatusChanged,
			VenueID: venueID,
			Data: interfaces.StatusEventData{
				OrderID: orderID,
				Status:  string(status),
			},
		}

		if err := s.broadcaster.BroadcastToVenue(ctx, venueID, event); err != nil {
			s.logger.Error("broadcast_failed", "Failed to broadcast status event", "", map[string]interface{}{
				"order_id": orderID,
				"venue_id": venueID,
			}, err)
		}

		if deviceID == nil {
			return
		}

		payload := BuildPushPayload(orderID, status)
		delivered, err := s.push.SendToDevice(ctx, *deviceID, payload)
		if err != nil {
			s.logger.Error("push_dispatch_failed", "Failed to dispatch push notification", "", map[string]interface{}{
				"order_id":  orderID,
				"device_id": *deviceID,
			}, err)
			return
		}

		s.logger.Debug("push_dispatched", "Push notification dispatched", "", map[string]interface{}{
			"order_id":  orderID,
			"delivered": delivered,
		})
	}()
}

// BuildPushPayload renders the customer-facing push message for a status. READY is the
// only status that requires interaction: the customer has to come pick the order up.
func BuildPushPayload(orderID string, status domain.Status) interfaces.PushPayload {
	var body string
	switch status {
	case domain.StatusPreparing:
		body = "Your order is being prepared."
	case domain.StatusReady:
		body = "Your order is ready!"
	case domain.StatusServed:
		body = "Your order has been served. Enjoy!"
	case domain.StatusCancelled:
		body = "Your order was cancelled."
	default:
		body = fmt.Sprintf("Your order status is now %s.", status)
	}

	return interfaces.PushPayload{
		Title:              "Order update",
		Body:               body,
		Tag:                "order-" + orderID,
		RequireInteraction: status == domain.StatusReady,
		Data: interfaces.PushData{
			OrderID: orderID,
			Status:  string(status),
			URL:     "/orders/" + orderID,
		},
	}
}
