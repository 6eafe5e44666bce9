package handler

import (
	"log/slog"
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"paygate-console/internal/websocket"
	"paygate-console/pkg/apierror"
)

// EventsHandler upgrades /api/events so open consoles receive cache
// invalidations for mutations made elsewhere.
type EventsHandler struct {
	hub      *websocket.Hub
	upgrader *gorillaws.Upgrader
}

func NewEventsHandler(hub *websocket.Hub, upgrader *gorillaws.Upgrader) *EventsHandler {
	return &EventsHandler{hub: hub, upgrader: upgrader}
}

func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if sess == nil {
		writeError(w, r, apierror.Unauthorized())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, sess.UserID, sess.Roles)
	if !h.hub.Register(r.Context(), client) {
		_ = conn.Close()
		return
	}

	slog.DebugContext(r.Context(), "events subscriber connected", "client_id", client.ID, "user_id", sess.UserID)
	go client.WritePump()
	go client.ReadPump()
}
