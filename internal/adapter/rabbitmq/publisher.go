package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tably/tably/internal/interfaces"
)

// statusExchange is a fanout exchange: every api-server instance and the standalone
// notification subscriber get their own copy of each status event.
const statusExchange = "order_status_fanout"

type publisher struct {
	conn   Connection
	origin string
}

// NewPublisher creates a status-event publisher. Origin identifies this instance in the
// relayed envelope so consumers can skip their own events.
func NewPublisher(conn Connection, origin string) interfaces.EventPublisher {
	return &publisher{conn: conn, origin: origin}
}

func (p *publisher) PublishStatusEvent(ctx context.Context, event interfaces.StatusEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(statusExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(interfaces.StatusEnvelope{
		Origin: p.origin,
		Event:  event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(statusExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
