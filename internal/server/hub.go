package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/tagforge/internal/logging"
)

// hub tracks the WebSocket connections of open preview pages and fans
// reload messages out to all of them. The clients map is always accessed
// under mu.
type hub struct {
	allowedOrigins []string
	logger         logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub(allowedOrigins []string, logger logging.Logger) *hub {
	return &hub{
		allowedOrigins: allowedOrigins,
		logger:         logger.WithComponent("websocket"),
		clients:        make(map[*websocket.Conn]struct{}),
	}
}

// handleWebSocket upgrades the request and keeps the connection
// registered until the browser goes away. The preview protocol is
// one-way; reads are drained and discarded.
func (h *hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	}
	if len(h.allowedOrigins) > 0 {
		opts.OriginPatterns = h.allowedOrigins
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	ctx := conn.CloseRead(context.Background())
	<-ctx.Done()

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()

	conn.Close(websocket.StatusNormalClosure, "")
}

// broadcast sends a text message to every connected client. Clients that
// fail to accept the write are dropped.
func (h *hub) broadcast(ctx context.Context, message string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, []byte(message))
		cancel()

		if err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close(websocket.StatusAbnormalClosure, "write failed")
		}
	}
}

// clientCount returns the number of connected preview pages.
func (h *hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}
