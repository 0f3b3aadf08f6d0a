package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/interfaces"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type stubOrderService struct {
	order      *domain.Order
	createErr  error
	getErr     error
	history    []*domain.StatusLog
	historyErr error
}

func (s *stubOrderService) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubOrderService) GetStatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history, nil
}

func (s *stubOrderService) ListByVenue(ctx context.Context, venueID string) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) ListByDevice(ctx context.Context, deviceID string) ([]*domain.Order, error) {
	return nil, nil
}

type stubStatusService struct {
	result  interfaces.ChangeStatusResult
	err     error
	lastCmd interfaces.ChangeStatusCommand
}

func (s *stubStatusService) ChangeStatus(ctx context.Context, cmd interfaces.ChangeStatusCommand) (interfaces.ChangeStatusResult, error) {
	s.lastCmd = cmd
	if s.err != nil {
		return interfaces.ChangeStatusResult{}, s.err
	}
	return s.result, nil
}

func stubOrder(t *testing.T) *domain.Order {
	t.Helper()
	price, err := domain.MoneyFromFloat(12.50, "USD")
	require.NoError(t, err)

	order, err := domain.NewOrder("order-1", "venue-1", []domain.OrderItem{{
		ID:         "i1",
		MenuItemID: "m1",
		ItemName:   "Margherita",
		Quantity:   2,
		UnitPrice:  price,
	}}, domain.OrderAttributes{}, testNow)
	require.NoError(t, err)
	return order
}

func newTestHandler(orders *stubOrderService, status *stubStatusService) *OrderHandler {
	return NewOrderHandler(orders, status, logger.New("test"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateOrderEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		orders := &stubOrderService{order: stubOrder(t)}
		handler := newTestHandler(orders, &stubStatusService{})

		body := `{"venueId":"venue-1","items":[{"itemId":"m1","name":"Margherita","quantity":2,"unitPrice":12.50}]}`
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "order-1", resp.ID)
		assert.Equal(t, "NEW", resp.Status)
		assert.Equal(t, 25.0, resp.Total)
		assert.Equal(t, "USD", resp.Currency)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newTestHandler(&stubOrderService{}, &stubStatusService{})

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeInvalidRequestBody, decodeError(t, rec).Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		orders := &stubOrderService{createErr: &domain.ValidationError{Field: "items", Message: "order must contain at least one item"}}
		handler := newTestHandler(orders, &stubStatusService{})

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"venueId":"venue-1","items":[]}`))
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeValidationFailed, decodeError(t, rec).Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := newTestHandler(&stubOrderService{}, &stubStatusService{})

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestGetOrderEndpoint(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		handler := newTestHandler(&stubOrderService{order: stubOrder(t)}, &stubStatusService{})

		req := httptest.NewRequest(http.MethodGet, "/orders/order-1", nil)
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "order-1", resp.ID)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 12.50, resp.Items[0].UnitPrice)
	})

	t.Run("not found", func(t *testing.T) {
		handler := newTestHandler(&stubOrderService{getErr: domain.ErrOrderNotFound}, &stubStatusService{})

		req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, codeOrderNotFound, decodeError(t, rec).Code)
	})
}

func TestUpdateStatusEndpoint(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		status := &stubStatusService{result: interfaces.ChangeStatusResult{
			OrderID:   "order-1",
			Status:    "PREPARING",
			UpdatedAt: testNow,
		}}
		handler := newTestHandler(&stubOrderService{}, status)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", bytes.NewBufferString(`{"status":"PREPARING"}`))
		req.Header.Set("X-Actor", "staff-1")
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "order-1", status.lastCmd.OrderID)
		assert.Equal(t, "PREPARING", status.lastCmd.Status)
		assert.Equal(t, "staff-1", status.lastCmd.ChangedBy)

		var resp interfaces.ChangeStatusResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PREPARING", resp.Status)
	})

	t.Run("invalid status string", func(t *testing.T) {
		status := &stubStatusService{err: &domain.InvalidStatusError{Value: "cooking"}}
		handler := newTestHandler(&stubOrderService{}, status)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", bytes.NewBufferString(`{"status":"cooking"}`))
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeInvalidStatus, decodeError(t, rec).Code)
	})

	t.Run("illegal transition", func(t *testing.T) {
		status := &stubStatusService{err: &domain.IllegalTransitionError{From: domain.StatusServed, To: domain.StatusCancelled}}
		handler := newTestHandler(&stubOrderService{}, status)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", bytes.NewBufferString(`{"status":"CANCELLED"}`))
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, codeIllegalTransition, decodeError(t, rec).Code)
	})

	t.Run("unexpected error is opaque", func(t *testing.T) {
		status := &stubStatusService{err: assert.AnError}
		handler := newTestHandler(&stubOrderService{}, status)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", bytes.NewBufferString(`{"status":"PREPARING"}`))
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, codeInternalError, resp.Code)
		assert.Equal(t, "internal server error", resp.Error)
	})
}

func TestGetHistoryEndpoint(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		orders := &stubOrderService{history: []*domain.StatusLog{
			{ID: 1, OrderID: "order-1", Status: domain.StatusNew, ChangedBy: "order-service", ChangedAt: testNow},
			{ID: 2, OrderID: "order-1", Status: domain.StatusPreparing, ChangedBy: "staff-1", ChangedAt: testNow.Add(time.Minute)},
		}}
		handler := newTestHandler(orders, &stubStatusService{})

		req := httptest.NewRequest(http.MethodGet, "/orders/order-1/history", nil)
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "NEW", resp[0]["status"])
		assert.Equal(t, "staff-1", resp[1]["changedBy"])
	})

	t.Run("unknown order", func(t *testing.T) {
		orders := &stubOrderService{historyErr: domain.ErrOrderNotFound}
		handler := newTestHandler(orders, &stubStatusService{})

		req := httptest.NewRequest(http.MethodGet, "/orders/missing/history", nil)
		rec := httptest.NewRecorder()
		handler.HandleOrders(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	handler := newTestHandler(&stubOrderService{}, &stubStatusService{})

	req := httptest.NewRequest(http.MethodGet, "/orders/order-1/unknown", nil)
	rec := httptest.NewRecorder()
	handler.HandleOrders(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeNotFound, decodeError(t, rec).Code)
}
