package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/clock"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	subs map[string]*domain.PushSubscription
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{subs: make(map[string]*domain.PushSubscription)}
}

func (r *fakeRepo) Create(ctx context.Context, sub *domain.PushSubscription) error {
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeRepo) FindByDevice(ctx context.Context, deviceID string) ([]*domain.PushSubscription, error) {
	var out []*domain.PushSubscription
	for _, s := range r.subs {
		if s.DeviceID == deviceID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.subs[id]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	delete(r.subs, id)
	return nil
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.New("test"), clock.NewFixed(testNow))

	t.Run("valid", func(t *testing.T) {
		sub, err := svc.Register(context.Background(), interfaces.RegisterSubscriptionCommand{
			DeviceID: "device-1",
			VenueID:  "venue-1",
			Endpoint: "https://push.example.com/send/abc",
			Auth:     "auth",
			P256dh:   "p256dh",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, testNow, sub.CreatedAt)
		assert.Contains(t, repo.subs, sub.ID)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := svc.Register(context.Background(), interfaces.RegisterSubscriptionCommand{
			DeviceID: "device-1",
			VenueID:  "venue-1",
		})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestRemove(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.New("test"), clock.NewFixed(testNow))

	sub, err := svc.Register(context.Background(), interfaces.RegisterSubscriptionCommand{
		DeviceID: "device-1",
		VenueID:  "venue-1",
		Endpoint: "https://push.example.com/send/abc",
		Auth:     "auth",
		P256dh:   "p256dh",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), sub.ID))
	assert.ErrorIs(t, svc.Remove(context.Background(), sub.ID), domain.ErrSubscriptionNotFound)
}
