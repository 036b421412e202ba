package preview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sketchui/internal/logging"
)

// DefaultAddr is the default listen address of the preview server.
const DefaultAddr = "127.0.0.1:7070"

// Handler returns the preview HTTP API:
//
//	GET /              minimal live page
//	GET /api/screen    current description JSON
//	GET /api/snapshot  current snapshot JSON
//	GET /ws            WebSocket stream of snapshots
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/screen", h.handleScreen)
	mux.HandleFunc("/api/snapshot", h.handleSnapshot)
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/", h.handleIndex)
	return logRequests(mux)
}

func (h *Hub) handleScreen(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	data := h.screen
	h.mu.RUnlock()
	writeJSON(w, r, data)
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Latest())
}

func writeJSON(w http.ResponseWriter, r *http.Request, data []byte) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if data == nil || string(data) == "null" {
		http.Error(w, "no document loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (h *Hub) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

const indexPage = `<!doctype html>
<meta charset="utf-8">
<title>sketchui preview</title>
<style>body{font:14px monospace;margin:2em}#meta{color:#666}</style>
<div id="meta">connecting…</div>
<pre id="screen"></pre>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const snap = JSON.parse(ev.data);
  document.getElementById("meta").textContent =
    "v" + snap.version + " · theme " + snap.theme + " · " + snap.mode + (snap.selected ? " · selected " + snap.selected : "");
  document.getElementById("screen").textContent = JSON.stringify(snap.screen, null, 2);
};
ws.onclose = () => { document.getElementById("meta").textContent = "disconnected"; };
</script>
`

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
	})
}

// Server is a running preview server.
type Server struct {
	hub      *Hub
	listener net.Listener
	http     *http.Server
	done     chan struct{}
}

// Serve starts serving hub on addr. Use port 0 to pick a free port.
func Serve(addr string, hub *Hub) (*Server, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		hub:      hub,
		listener: listener,
		http: &http.Server{
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Preview server stopped", zap.Error(err))
		}
	}()

	logging.Info("Preview server listening", zap.String("addr", s.Addr()))
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Shutdown stops the server. Open WebSocket connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.hub.closeAll()
	<-s.done
	return err
}
