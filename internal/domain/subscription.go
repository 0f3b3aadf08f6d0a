package domain

import "time"

// PushSubscription is a stored push endpoint belonging to an anonymous customer device.
// One device can hold several subscriptions (one per browser/installation).
type PushSubscription struct {
	ID        string
	DeviceID  string
	VenueID   string
	Endpoint  string
	Auth      string
	P256dh    string
	CreatedAt time.Time
}

// NewPushSubscription creates a subscription with validation applied.
func NewPushSubscription(id, deviceID, venueID, endpoint, auth, p256dh string, now time.Time) (*PushSubscription, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Message: "device id is required"}
	}
	if venueID == "" {
		return nil, &ValidationError{Field: "venue_id", Message: "venue id is required"}
	}
	if endpoint == "" {
		return nil, &ValidationError{Field: "endpoint", Message: "endpoint is required"}
	}

	return &PushSubscription{
		ID:        id,
		DeviceID:  deviceID,
		VenueID:   venueID,
		Endpoint:  endpoint,
		Auth:      auth,
		P256dh:    p256dh,
		CreatedAt: now,
	}, nil
}
