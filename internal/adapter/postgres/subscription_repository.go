package postgres

import (
	"context"
	"fmt"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

type subscriptionRepository struct {
	db DB
}

func NewSubscriptionRepository(db DB) interfaces.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.PushSubscription) error {
	// Re-registering the same endpoint replaces the keys instead of duplicating the row.
	query := `
		INSERT INTO push_subscriptions (id, device_id, venue_id, endpoint, auth, p256dh, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (endpoint) DO UPDATE
		SET device_id = EXCLUDED.device_id, venue_id = EXCLUDED.venue_id,
		    auth = EXCLUDED.auth, p256dh = EXCLUDED.p256dh
	`
	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.DeviceID, sub.VenueID, sub.Endpoint, sub.Auth, sub.P256dh, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert push subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) FindByDevice(ctx context.Context, deviceID string) ([]*domain.PushSubscription, error) {
	query := `
		SELECT id, device_id, venue_id, endpoint, auth, p256dh, created_at
		FROM push_subscriptions
		WHERE device_id = $1
	`

	rows, err := r.db.Query(ctx, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.PushSubscription
	for rows.Next() {
		var sub domain.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.DeviceID, &sub.VenueID, &sub.Endpoint,
			&sub.Auth, &sub.P256dh, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan push subscription: %w", err)
		}
		subs = append(subs, &sub)
	}

	return subs, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}
