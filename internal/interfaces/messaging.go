package interfaces

import "context"

// StatusEvent is the realtime event emitted to venue subscribers on every successful
// status transition.
type StatusEvent struct {
	Type    string          `json:"type"`
	VenueID string          `json:"venueId"`
	Data    StatusEventData `json:"data"`
}

type StatusEventData struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

const EventTypeOrderStatusChanged = "order_status_changed"

// PushPayload is the message shape delivered to customer devices.
type PushPayload struct {
	Title              string   `json:"title"`
	Body               string   `json:"body"`
	Icon               string   `json:"icon,omitempty"`
	Tag                string   `json:"tag"`
	RequireInteraction bool     `json:"requireInteraction"`
	Data               PushData `json:"data"`
}

type PushData struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	URL     string `json:"url"`
}

// Broadcaster pushes a status event to all realtime subscribers of a venue.
type Broadcaster interface {
	BroadcastToVenue(ctx context.Context, venueID string, event StatusEvent) error
}

// PushSender delivers a payload to every stored subscription of a device and returns
// the number of successful deliveries.
type PushSender interface {
	SendToDevice(ctx context.Context, deviceID string, payload PushPayload) (int, error)
}

// StatusEnvelope is the wire shape relayed between instances. Origin carries the
// publishing instance id so a consumer can skip events it already delivered locally.
type StatusEnvelope struct {
	Origin string      `json:"origin"`
	Event  StatusEvent `json:"event"`
}

// Messaging (Adapter/RabbitMQ)
type EventPublisher interface {
	PublishStatusEvent(ctx context.Context, event StatusEvent) error
}

type EventConsumer interface {
	ConsumeStatusEvents(ctx context.Context, handler StatusEventHandler) error
}

type StatusEventHandler func(ctx context.Context, body []byte) error
