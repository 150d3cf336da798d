// Package ws pushes refresh nudges to open admin consoles over websockets.
// Consoles treat a nudge as "refetch the related list"; no payload beyond
// the event type and entity ID is relied upon.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lankaspa/portal/pkg/messaging"
	"github.com/lankaspa/portal/pkg/metrics"
)

const writeTimeout = 5 * time.Second

type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewHub(m *metrics.Metrics, logger zerolog.Logger) *Hub {
	return &Hub{
		conns: map[*websocket.Conn]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		metrics: m,
		logger:  logger.With().Str("component", "ws").Logger(),
	}
}

// Handle upgrades the request and keeps the connection registered until the
// peer goes away. Consoles only receive; inbound frames are drained and
// dropped.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.add(conn)
	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Run forwards broker events to every connected console until ctx ends.
func (h *Hub) Run(ctx context.Context, bus *messaging.EventBus) error {
	if bus == nil {
		return nil
	}
	return bus.Subscribe(ctx, func(evt messaging.Event) {
		if h.metrics != nil {
			h.metrics.EventsReceived.WithLabelValues(evt.Type).Inc()
		}
		h.Broadcast(evt)
	})
}

// Broadcast sends one event to all connected consoles, dropping peers whose
// writes fail.
func (h *Hub) Broadcast(evt messaging.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(evt); err != nil {
			conn.Close()
			delete(h.conns, conn)
			h.updateGauge()
		}
	}
}

// Close disconnects every console.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	h.updateGauge()
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	h.updateGauge()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.conns, conn)
	h.updateGauge()
}

func (h *Hub) updateGauge() {
	if h.metrics != nil {
		h.metrics.ConsoleConnections.Set(float64(len(h.conns)))
	}
}
