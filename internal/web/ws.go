package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Same-origin dashboard only; public read-only data anyway.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks connected dashboard clients and fans snapshot updates out to
// them. Slow or broken clients are dropped on write failure.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
}

// Broadcast sends payload as one JSON message to every client.
func (h *Hub) Broadcast(payload interface{}) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.WriteJSON(payload); err != nil {
			h.logger.Debug("Dropping websocket client", zap.Error(err))
			h.remove(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		c.Close()
	}
	h.conns = make(map[*websocket.Conn]struct{})
}

func (s *Server) handleMarketWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Websocket upgrade failed", zap.Error(err))
		return
	}

	// Send the current snapshot immediately so new clients don't wait a
	// full push interval for their first paint. The connection must not
	// join the hub before this write completes: the broadcast loop writes
	// to every hub member and the connection supports only one writer at
	// a time.
	snap := s.snapshotService.GetMarketSnapshot(r.Context())
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(snapshotEnvelope(snap)); err != nil {
		conn.Close()
		return
	}
	s.hub.add(conn)

	// Drain incoming frames; clients only listen but we still need the
	// read loop to process pings and detect closes.
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// RunBroadcast pushes the current snapshot to all clients every interval
// until ctx is cancelled. The snapshot service's own TTL decides whether a
// push triggers an upstream refresh.
func (s *Server) RunBroadcast(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.hub.ClientCount() == 0 {
				continue
			}
			snap := s.snapshotService.GetMarketSnapshot(ctx)
			s.hub.Broadcast(snapshotEnvelope(snap))
		case <-ctx.Done():
			return
		}
	}
}
