package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tably/tably/internal/adapter/logger"
	"github.com/tably/tably/internal/adapter/realtime"
)

type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   logger.Logger
}

func NewWSHandler(hub *realtime.Hub, logger logger.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Дашборд и PWA обслуживаются с других origin'ов
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleVenueSocket upgrades GET /ws/venues/{id} and streams the venue's status events.
func (h *WSHandler) HandleVenueSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] == "" {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
		return
	}
	venueID := parts[2]

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws_upgrade_failed", "Failed to upgrade websocket", "", map[string]interface{}{
			"venue_id": venueID,
		}, err)
		return
	}

	h.logger.Debug("ws_connected", "Realtime client connected", "", map[string]interface{}{
		"venue_id": venueID,
	})

	client := realtime.NewClient(h.hub, venueID, conn)
	go client.Run()
}
