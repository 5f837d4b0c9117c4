// Package server provides the preview server behind `tagforge serve`:
// it serves the parsed and formatted view of a markup source over HTTP
// and pushes reload events to connected browsers over WebSocket whenever
// the source changes on disk.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/conneroisu/tagforge/internal/config"
	"github.com/conneroisu/tagforge/internal/document"
	"github.com/conneroisu/tagforge/internal/logging"
)

// PreviewServer serves one markup source with live reload.
type PreviewServer struct {
	config *config.Config
	logger logging.Logger
	hub    *hub

	mu       sync.RWMutex
	path     string
	doc      *document.Document
	parseErr error

	httpServer *http.Server
}

// New creates a preview server for the markup source at path.
func New(cfg *config.Config, logger logging.Logger, path string) *PreviewServer {
	return &PreviewServer{
		config: cfg,
		logger: logger.WithComponent("server"),
		hub:    newHub(cfg.Server.AllowedOrigins, logger),
		path:   path,
	}
}

// Start loads the source and serves until the context is cancelled.
func (s *PreviewServer) Start(ctx context.Context) error {
	s.Reload(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.hub.handleWebSocket)

	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "preview server listening", "addr", addr, "path", s.path)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Reload re-parses the source from disk and tells connected browsers to
// refresh. Called by the watch loop on every change batch.
func (s *PreviewServer) Reload(ctx context.Context) {
	data, err := os.ReadFile(s.path)

	s.mu.Lock()
	if err != nil {
		s.doc, s.parseErr = nil, err
	} else {
		s.doc, s.parseErr = document.Parse(s.path, string(data))
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, err, "cannot read preview source", "path", s.path)
	}

	s.hub.broadcast(ctx, "reload")
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	doc, parseErr := s.doc, s.parseErr
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var status, body string
	switch {
	case parseErr != nil:
		status = `<p class="err">` + html.EscapeString(parseErr.Error()) + `</p>`
	case doc == nil:
		status = `<p class="err">no document loaded</p>`
	default:
		if err := doc.Validate(); err != nil {
			status = `<p class="err">` + html.EscapeString(err.Error()) + `</p>`
		} else {
			status = fmt.Sprintf(`<p class="ok">well formed, %d tags</p>`, len(doc.Tags()))
		}
		body = `<pre>` + html.EscapeString(doc.FormatString()) + `</pre>`
	}

	fmt.Fprintf(w, indexPage, html.EscapeString(s.path), status, body)
}

// indexPage wraps the formatted source with a script that reconnects to
// the reload socket and refreshes the page on every broadcast.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>tagforge: %s</title>
<style>
body { font-family: monospace; margin: 2rem; }
.ok { color: #2a7a2a; }
.err { color: #b03030; }
pre { background: #f6f6f6; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
%s
%s
<script>
(function connect() {
  var ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = function() { location.reload(); };
  ws.onclose = function() { setTimeout(connect, 1000); };
})();
</script>
</body>
</html>
`
