package amqp

import (
	"context"
	"encoding/json"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/adapter/realtime"
	"github.com/tably/tably/internal/interfaces"
)

// RelayHandler feeds status events from the broker into the local websocket hub.
type RelayHandler struct {
	hub    *realtime.Hub
	origin string
	logger logger.Logger
}

// NewRelayHandler creates a handler that drops events published by this instance
// itself: those were already delivered to the local hub before the relay.
func NewRelayHandler(hub *realtime.Hub, origin string, logger logger.Logger) *RelayHandler {
	return &RelayHandler{
		hub:    hub,
		origin: origin,
		logger: logger,
	}
}

func (h *RelayHandler) HandleStatusEvent(ctx context.Context, body []byte) error {
	var envelope interfaces.StatusEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse status event", "", nil, err)
		return err
	}

	if envelope.Origin == h.origin {
		return nil
	}

	return h.hub.BroadcastToVenue(ctx, envelope.Event.VenueID, envelope.Event)
}
