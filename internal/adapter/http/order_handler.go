package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

type OrderHandler struct {
	orders interfaces.OrderService
	status interfaces.StatusService
	logger logger.Logger
}

func NewOrderHandler(orders interfaces.OrderService, status interfaces.StatusService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		status: status,
		logger: logger,
	}
}

type CreateOrderRequest struct {
	VenueID    string             `json:"venueId"`
	TableID    *string            `json:"tableId,omitempty"`
	TableLabel *string            `json:"tableLabel,omitempty"`
	DeviceID   *string            `json:"deviceId,omitempty"`
	Pax        *int               `json:"pax,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ItemID      string  `json:"itemId"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Currency    string  `json:"currency,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	OptionsJSON *string `json:"options,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	VenueID    string              `json:"venueId"`
	TableID    *string             `json:"tableId,omitempty"`
	TableLabel *string             `json:"tableLabel,omitempty"`
	DeviceID   *string             `json:"deviceId,omitempty"`
	Pax        *int                `json:"pax,omitempty"`
	Notes      *string             `json:"notes,omitempty"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	Total      float64             `json:"total"`
	Currency   string              `json:"currency"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type OrderItemResponse struct {
	ID        string  `json:"id"`
	ItemID    string  `json:"itemId"`
	Name      string  `json:"itemName"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Notes     *string `json:"notes,omitempty"`
	Options   *string `json:"options,omitempty"`
}

// HandleOrders dispatches /orders and /orders/{id}[/status|/history].
func (h *OrderHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		h.createOrder(w, r)

	case len(parts) == 2:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		h.getOrder(w, r, parts[1])

	case len(parts) == 3 && parts[2] == "status":
		if r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		h.updateStatus(w, r, parts[1])

	case len(parts) == 3 && parts[2] == "history":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		h.getHistory(w, r, parts[1])

	default:
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	}
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	items := make([]interfaces.CreateOrderItemCommand, len(req.Items))
	for i, item := range req.Items {
		items[i] = interfaces.CreateOrderItemCommand{
			MenuItemID:  item.ItemID,
			Name:        strings.TrimSpace(item.Name),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Currency:    item.Currency,
			Notes:       item.Notes,
			OptionsJSON: item.OptionsJSON,
		}
	}

	cmd := interfaces.CreateOrderCommand{
		VenueID:    strings.TrimSpace(req.VenueID),
		TableID:    req.TableID,
		TableLabel: req.TableLabel,
		DeviceID:   req.DeviceID,
		Pax:        req.Pax,
		Notes:      req.Notes,
		Items:      items,
	}

	order, err := h.orders.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", "", nil, err)
		writeDomainError(w, err)
		return
	}

	resp, err := toOrderResponse(order)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp, err := toOrderResponse(order)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	result, err := h.status.ChangeStatus(r.Context(), interfaces.ChangeStatusCommand{
		OrderID:   id,
		Status:    req.Status,
		ChangedBy: r.Header.Get("X-Actor"),
	})
	if err != nil {
		h.logger.Error("status_change_failed", "Failed to change order status", "", map[string]interface{}{
			"order_id": id,
			"status":   req.Status,
		}, err)
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *OrderHandler) getHistory(w http.ResponseWriter, r *http.Request, id string) {
	history, err := h.orders.GetStatusHistory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]map[string]interface{}, len(history))
	for i, log := range history {
		resp[i] = map[string]interface{}{
			"status":    string(log.Status),
			"changedBy": log.ChangedBy,
			"changedAt": log.ChangedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func toOrderResponse(order *domain.Order) (OrderResponse, error) {
	total, err := order.Total()
	if err != nil {
		return OrderResponse{}, err
	}

	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ItemID:    item.MenuItemID,
			Name:      item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Float64(),
			Notes:     item.Notes,
			Options:   item.OptionsJSON,
		}
	}

	return OrderResponse{
		ID:         order.ID,
		VenueID:    order.VenueID,
		TableID:    order.TableID,
		TableLabel: order.TableLabel,
		DeviceID:   order.DeviceID,
		Pax:        order.Pax,
		Notes:      order.Notes,
		Status:     string(order.Status),
		Items:      items,
		Total:      total.Float64(),
		Currency:   total.Currency(),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}, nil
}
