package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/interfaces"
)

type SubscriptionHandler struct {
	service interfaces.SubscriptionService
	logger  logger.Logger
}

func NewSubscriptionHandler(service interfaces.SubscriptionService, logger logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger,
	}
}

type RegisterSubscriptionRequest struct {
	DeviceID string `json:"deviceId"`
	VenueID  string `json:"venueId"`
	Endpoint string `json:"endpoint"`
	Auth     string `json:"auth"`
	P256dh   string `json:"p256dh"`
}

type SubscriptionResponse struct {
	ID       string `json:"id"`
	DeviceID string `json:"deviceId"`
	VenueID  string `json:"venueId"`
}

// HandleSubscriptions dispatches /subscriptions and /subscriptions/{id}.
func (h *SubscriptionHandler) HandleSubscriptions(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		h.register(w, r)

	case len(parts) == 2:
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		h.remove(w, r, parts[1])

	default:
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	}
}

func (h *SubscriptionHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	sub, err := h.service.Register(r.Context(), interfaces.RegisterSubscriptionCommand{
		DeviceID: strings.TrimSpace(req.DeviceID),
		VenueID:  strings.TrimSpace(req.VenueID),
		Endpoint: strings.TrimSpace(req.Endpoint),
		Auth:     req.Auth,
		P256dh:   req.P256dh,
	})
	if err != nil {
		h.logger.Error("subscription_failed", "Failed to register push subscription", "", nil, err)
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubscriptionResponse{
		ID:       sub.ID,
		DeviceID: sub.DeviceID,
		VenueID:  sub.VenueID,
	})
}

func (h *SubscriptionHandler) remove(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Remove(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
