package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"paygate-console/internal/event"
)

// PermissionChecker reports whether roles grant perm.
type PermissionChecker func(roles []string, perm string) bool

// Hub pushes bus events to connected consoles. Only Run touches clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	bus        event.Bus
	allowed    PermissionChecker
	done       chan struct{}
}

func NewHub(bus event.Bus, allowed PermissionChecker) *Hub {
	if allowed == nil {
		allowed = func([]string, string) bool { return true }
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
		allowed:    allowed,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe("websocket-hub")
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(e)
		}
	}
}

func (h *Hub) broadcast(e event.Event) {
	message, err := json.Marshal(e)
	if err != nil {
		slog.Error("failed to marshal event", "error", err)
		return
	}

	for client := range h.clients {
		if e.Permission != "" && !h.allowed(client.roles, e.Permission) {
			continue
		}
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Register adds client to the broadcast set. It blocks until the hub loop
// accepts it or ctx is done.
func (h *Hub) Register(ctx context.Context, client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-ctx.Done():
		return false
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
