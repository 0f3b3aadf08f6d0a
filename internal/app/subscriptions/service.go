package subscriptions

import (
	"context"

	"github.com/google/uuid"
	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/clock"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

type Service struct {
	repo   interfaces.SubscriptionRepository
	logger logger.Logger
	clock  clock.Clock
}

func NewService(repo interfaces.SubscriptionRepository, logger logger.Logger, clk clock.Clock) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		clock:  clk,
	}
}

func (s *Service) Register(ctx context.Context, cmd interfaces.RegisterSubscriptionCommand) (*domain.PushSubscription, error) {
	sub, err := domain.NewPushSubscription(
		uuid.NewString(), cmd.DeviceID, cmd.VenueID, cmd.Endpoint, cmd.Auth, cmd.P256dh, s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.Error("db_error", "Failed to store push subscription", "", map[string]interface{}{
			"device_id": cmd.DeviceID,
		}, err)
		return nil, err
	}

	s.logger.Debug("subscription_registered", "Push subscription stored", "", map[string]interface{}{
		"device_id": sub.DeviceID,
		"venue_id":  sub.VenueID,
	})

	return sub, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
