package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tably/tably/internal/interfaces"
)

type consumer struct {
	conn Connection
}

func NewConsumer(conn Connection) interfaces.EventConsumer {
	return &consumer{conn: conn}
}

func (c *consumer) ConsumeStatusEvents(ctx context.Context, handler interfaces.StatusEventHandler) error {
	for {
		err := c.consumeWithReconnect(ctx, handler)

		// Если контекст отменен - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		log.Printf("Status events consumer disconnected: %v. Reconnecting in 5 seconds...", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) consumeWithReconnect(ctx context.Context, handler interfaces.StatusEventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(statusExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Временная эксклюзивная очередь на инстанс
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", statusExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// Статусные события транзиентны: ошибки обработки игнорируем
			_ = handler(ctx, msg.Body)
		}
	}
}
