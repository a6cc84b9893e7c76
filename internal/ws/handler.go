package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/entry"
	"github.com/netgazer/wifiwatch/internal/event"
)

// Handler provides the WebSocket endpoint for live entry updates.
type Handler struct {
	hub    *Hub
	bus    *event.Bus
	logger *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to entry events.
func NewHandler(bus *event.Bus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/entry", h.handleEntryStream)
}

// handleEntryStream upgrades the connection to WebSocket and streams
// projection updates until the client disconnects.
func (h *Handler) handleEntryStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		id:     uuid.NewString(),
		send:   make(chan Message, 256),
		logger: h.logger,
	}

	h.hub.Register(client)

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	// Client disconnected -- stop write pump and unregister.
	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents forwards entry and radio events to all connected
// WebSocket clients.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	h.bus.Subscribe(entry.TopicEntryChanged, func(_ context.Context, e event.Event) {
		changed, ok := e.Payload.(*entry.EntryChangedEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageEntryUpdated,
			Key:       changed.Projection.Key,
			Timestamp: e.Timestamp,
			Data: EntryUpdatedData{
				Projection: changed.Projection,
			},
		})
	})

	h.bus.Subscribe(entry.TopicRadioState, func(_ context.Context, e event.Event) {
		radio, ok := e.Payload.(*entry.RadioStateEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageRadioState,
			Timestamp: e.Timestamp,
			Data: RadioStateData{
				Enabled: radio.State == entry.RadioEnabled,
			},
		})
	})

	h.logger.Info("subscribed to entry events for WebSocket broadcasting")
}
