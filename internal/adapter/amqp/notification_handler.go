package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/interfaces"
)

// NotificationHandler tails the status event stream, used by the standalone
// notification-subscriber mode for operational visibility.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleStatusEvent(ctx context.Context, body []byte) error {
	var envelope interfaces.StatusEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse status event", "", nil, err)
		return err
	}

	event := envelope.Event
	h.logger.Debug("status_event_received", fmt.Sprintf("Received status event for order %s", event.Data.OrderID),
		event.Data.OrderID, map[string]interface{}{
			"order_id": event.Data.OrderID,
			"venue_id": event.VenueID,
			"status":   event.Data.Status,
		})

	fmt.Printf("Order %s at venue %s changed status to '%s'\n",
		event.Data.OrderID, event.VenueID, event.Data.Status)

	return nil
}
