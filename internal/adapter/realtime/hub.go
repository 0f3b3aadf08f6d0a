package realtime

import (
	"context"
	"sync"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/interfaces"
	"github.com/tably/tably/internal/metrics"
)

// Hub keeps the venue id -> connected clients registry. Register/Unregister run
// concurrently with Broadcast; sends happen under the read lock so Unregister can
// never close a send channel mid-broadcast.
type Hub struct {
	mu     sync.RWMutex
	venues map[string]map[*Client]struct{}
	logger logger.Logger
}

func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		venues: make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.venues[c.venueID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.venues[c.venueID] = clients
	}
	clients[c] = struct{}{}

	metrics.WebsocketConnections.Inc()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.venues[c.venueID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.venues, c.venueID)
	}
	close(c.send)

	metrics.WebsocketConnections.Dec()
}

// BroadcastToVenue delivers the event to every client subscribed to the venue. A slow
// client whose send buffer is full just misses the event; it never blocks the rest.
// Sends are non-blocking, so holding the read lock for the whole loop is cheap.
func (h *Hub) BroadcastToVenue(ctx context.Context, venueID string, event interfaces.StatusEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.venues[venueID] {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c.send <- event:
		default:
			h.logger.Debug("client_dropped_event", "Client send buffer full, event skipped", "", map[string]interface{}{
				"venue_id": venueID,
			})
		}
	}

	metrics.BroadcastsTotal.Inc()
	return nil
}

// VenueClientCount reports the current number of subscribers for a venue.
func (h *Hub) VenueClientCount(venueID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.venues[venueID])
}
