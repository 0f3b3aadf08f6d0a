package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, venue_id, table_id, table_label, device_id, pax, notes, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Insert order
	query := `
		INSERT INTO orders (id, venue_id, table_id, table_label, device_id, pax, notes,
		                    status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		order.ID, order.VenueID, order.TableID, order.TableLabel, order.DeviceID,
		order.Pax, order.Notes, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// Insert order items
	for _, item := range order.Items {
		itemQuery := `
			INSERT INTO order_items (id, order_id, menu_item_id, item_name, quantity,
			                         unit_price, currency, notes, options_json)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err = tx.Exec(ctx, itemQuery,
			item.ID, order.ID, item.MenuItemID, item.ItemName, item.Quantity,
			item.UnitPrice.Amount().String(), item.UnitPrice.Currency(), item.Notes, item.OptionsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// Log initial status
	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.Exec(ctx, logQuery, order.ID, order.Status, "order-service", order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.VenueID, &order.TableID, &order.TableLabel, &order.DeviceID,
		&order.Pax, &order.Notes, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	// Rehydration runs the same invariant checks as creation.
	return domain.RestoreOrder(order)
}

func (r *orderRepository) ListByVenue(ctx context.Context, venueID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE venue_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, venueID)
}

func (r *orderRepository) ListByDevice(ctx context.Context, deviceID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE device_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, deviceID)
}

func (r *orderRepository) list(ctx context.Context, query string, arg any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.VenueID, &order.TableID, &order.TableLabel, &order.DeviceID,
			&order.Pax, &order.Notes, &order.Status, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		if _, err := domain.RestoreOrder(*order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT id, menu_item_id, item_name, quantity, unit_price::text, currency, notes, options_json
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item     domain.OrderItem
			amount   string
			currency string
		)
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.ItemName, &item.Quantity,
			&amount, &currency, &item.Notes, &item.OptionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		dec, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse unit price: %w", err)
		}
		price, err := domain.NewMoney(dec, currency)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = price

		items = append(items, item)
	}

	return items, nil
}

// UpdateStatusWithLog persists the new status and appends an audit row in one
// transaction, so the status and its history can never diverge.
func (r *orderRepository) UpdateStatusWithLog(ctx context.Context, order *domain.Order, changedBy string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	tag, err := tx.Exec(ctx, query, order.Status, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, logQuery, order.ID, order.Status, changedBy, order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error) {
	query := `
		SELECT id, order_id, status, changed_by, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, nil
}
