package realtime

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/interfaces"
)

func testEvent(orderID string) interfaces.StatusEvent {
	return interfaces.StatusEvent{
		Type:    interfaces.EventTypeOrderStatusChanged,
		VenueID: "venue-1",
		Data: interfaces.StatusEventData{
			OrderID: orderID,
			Status:  "READY",
		},
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(logger.New("test"))

	a := NewClient(hub, "venue-1", nil)
	b := NewClient(hub, "venue-1", nil)
	other := NewClient(hub, "venue-2", nil)

	hub.Register(a)
	hub.Register(b)
	hub.Register(other)
	assert.Equal(t, 2, hub.VenueClientCount("venue-1"))
	assert.Equal(t, 1, hub.VenueClientCount("venue-2"))

	hub.Unregister(a)
	assert.Equal(t, 1, hub.VenueClientCount("venue-1"))

	// Повторный unregister безопасен
	hub.Unregister(a)
	assert.Equal(t, 1, hub.VenueClientCount("venue-1"))

	hub.Unregister(b)
	assert.Equal(t, 0, hub.VenueClientCount("venue-1"))

	// Send channel is closed so the write loop can drain and exit.
	_, open := <-a.send
	assert.False(t, open)
}

func TestHubBroadcastToVenue(t *testing.T) {
	hub := NewHub(logger.New("test"))

	a := NewClient(hub, "venue-1", nil)
	b := NewClient(hub, "venue-1", nil)
	other := NewClient(hub, "venue-2", nil)
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	err := hub.BroadcastToVenue(context.Background(), "venue-1", testEvent("order-1"))
	require.NoError(t, err)

	for _, c := range []*Client{a, b} {
		select {
		case event := <-c.send:
			assert.Equal(t, "order-1", event.Data.OrderID)
		default:
			t.Fatal("expected event in send buffer")
		}
	}

	select {
	case <-other.send:
		t.Fatal("client from another venue received the event")
	default:
	}
}

func TestHubBroadcastDropsOnFullBuffer(t *testing.T) {
	hub := NewHub(logger.New("test"))

	slow := NewClient(hub, "venue-1", nil)
	hub.Register(slow)

	// Забиваем буфер, следующие события должны отбрасываться без блокировки
	for i := 0; i < sendBufferSize; i++ {
		slow.send <- testEvent(fmt.Sprintf("order-%d", i))
	}

	err := hub.BroadcastToVenue(context.Background(), "venue-1", testEvent("dropped"))
	require.NoError(t, err)
	assert.Len(t, slow.send, sendBufferSize)
}

func TestHubBroadcastHonorsContext(t *testing.T) {
	hub := NewHub(logger.New("test"))
	c := NewClient(hub, "venue-1", nil)
	hub.Register(c)
	for i := 0; i < sendBufferSize; i++ {
		c.send <- testEvent(fmt.Sprintf("order-%d", i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hub.BroadcastToVenue(ctx, "venue-1", testEvent("order-1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHubConcurrentChurn(t *testing.T) {
	hub := NewHub(logger.New("test"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c := NewClient(hub, "venue-1", nil)
				hub.Register(c)
				hub.BroadcastToVenue(context.Background(), "venue-1", testEvent("order-1"))
				hub.Unregister(c)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.VenueClientCount("venue-1"))
}
