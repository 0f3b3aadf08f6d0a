package amqp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/adapter/realtime"
	"github.com/tably/tably/internal/interfaces"
)

func envelopeBody(t *testing.T, origin string) []byte {
	t.Helper()
	body, err := json.Marshal(interfaces.StatusEnvelope{
		Origin: origin,
		Event: interfaces.StatusEvent{
			Type:    interfaces.EventTypeOrderStatusChanged,
			VenueID: "venue-1",
			Data: interfaces.StatusEventData{
				OrderID: "order-1",
				Status:  "READY",
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHandleStatusEvent(t *testing.T) {
	hub := realtime.NewHub(logger.New("test"))

	t.Run("own origin is skipped", func(t *testing.T) {
		handler := NewRelayHandler(hub, "instance-a", logger.New("test"))
		err := handler.HandleStatusEvent(context.Background(), envelopeBody(t, "instance-a"))
		assert.NoError(t, err)
	})

	t.Run("foreign origin is relayed", func(t *testing.T) {
		handler := NewRelayHandler(hub, "instance-a", logger.New("test"))
		err := handler.HandleStatusEvent(context.Background(), envelopeBody(t, "instance-b"))
		assert.NoError(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewRelayHandler(hub, "instance-a", logger.New("test"))
		err := handler.HandleStatusEvent(context.Background(), []byte("{not json"))
		assert.Error(t, err)
	})
}
