package realtime

import (
	"context"
	"fmt"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/interfaces"
)

// FanoutBroadcaster delivers an event to the local hub and relays it through the
// message broker so other instances can feed their own hubs.
type FanoutBroadcaster struct {
	hub       *Hub
	publisher interfaces.EventPublisher
	logger    logger.Logger
}

func NewFanoutBroadcaster(hub *Hub, publisher interfaces.EventPublisher, logger logger.Logger) *FanoutBroadcaster {
	return &FanoutBroadcaster{
		hub:       hub,
		publisher: publisher,
		logger:    logger,
	}
}

func (b *FanoutBroadcaster) BroadcastToVenue(ctx context.Context, venueID string, event interfaces.StatusEvent) error {
	// Локальные сокеты получают событие даже при недоступном брокере
	if err := b.hub.BroadcastToVenue(ctx, venueID, event); err != nil {
		return fmt.Errorf("local broadcast failed: %w", err)
	}

	if b.publisher == nil {
		return nil
	}

	if err := b.publisher.PublishStatusEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to relay status event: %w", err)
	}

	return nil
}
