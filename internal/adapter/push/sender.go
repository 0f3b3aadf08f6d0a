package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/interfaces"
	"github.com/tably/tably/internal/metrics"
)

// errSubscriptionGone marks a delivery rejected with a 404/410, meaning the endpoint
// will never accept messages again and the subscription must be pruned.
var errSubscriptionGone = errors.New("subscription gone")

// Sender delivers push payloads to every stored subscription endpoint of a device.
// Deliveries are independent: one endpoint failing does not abort the others.
type Sender struct {
	subs    interfaces.SubscriptionRepository
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  logger.Logger
}

func NewSender(subs interfaces.SubscriptionRepository, logger logger.Logger, timeout time.Duration) *Sender {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0) // transient failures are not retried within a fan-out call

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "push-endpoints",
		Interval: 15 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})

	return &Sender{
		subs:    subs,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

// SendToDevice resolves the device to its stored subscriptions and posts the payload to
// each endpoint, returning the number of successful deliveries.
func (s *Sender) SendToDevice(ctx context.Context, deviceID string, payload interfaces.PushPayload) (int, error) {
	subs, err := s.subs.FindByDevice(ctx, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve subscriptions: %w", err)
	}

	delivered := 0
	for _, sub := range subs {
		if err := s.deliver(ctx, sub.Endpoint, payload); err != nil {
			if errors.Is(err, errSubscriptionGone) {
				s.prune(ctx, sub.ID, sub.Endpoint)
				continue
			}

			metrics.PushDeliveries.WithLabelValues("failed").Inc()
			s.logger.Error("push_delivery_failed", "Failed to deliver push notification", "", map[string]interface{}{
				"device_id": deviceID,
				"endpoint":  sub.Endpoint,
			}, err)
			continue
		}

		metrics.PushDeliveries.WithLabelValues("delivered").Inc()
		delivered++
	}

	return delivered, nil
}

func (s *Sender) deliver(ctx context.Context, endpoint string, payload interfaces.PushPayload) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(endpoint)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusGone:
			return nil, errSubscriptionGone
		case resp.StatusCode() >= 400:
			return nil, fmt.Errorf("push endpoint returned %d", resp.StatusCode())
		}
		return nil, nil
	})
	return err
}

// prune deletes a dead subscription so it is not attempted again on the next event.
func (s *Sender) prune(ctx context.Context, id, endpoint string) {
	metrics.PushDeliveries.WithLabelValues("pruned").Inc()

	if err := s.subs.Delete(ctx, id); err != nil {
		s.logger.Error("subscription_prune_failed", "Failed to delete dead subscription", "", map[string]interface{}{
			"subscription_id": id,
			"endpoint":        endpoint,
		}, err)
		return
	}

	s.logger.Debug("subscription_pruned", "Dead subscription removed", "", map[string]interface{}{
		"subscription_id": id,
	})
}
