package host

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/bridge"
)

const (
	sendQueueSize = 256
	sendTimeout   = time.Second
	writeTimeout  = 5 * time.Second
)

// Server exposes the bridge to a host over a websocket. One connection at a
// time observes bridge events; a newer connection takes over.
type Server struct {
	bridge   *bridge.Bridge
	upgrader websocket.Upgrader
	methods  map[string]methodFunc

	mu       sync.Mutex
	observer *connection
}

func NewServer(b *bridge.Bridge) *Server {
	s := &Server{
		bridge: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Hosts are local processes without a browser origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.methods = s.methodTable()
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	c := newConnection(uuid.NewString(), ws, s)
	slog.Info("host connected", "connection_id", c.id)

	s.observe(c)
	c.serve()
	slog.Info("host disconnected", "connection_id", c.id)
}

func (s *Server) observe(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = c
	s.bridge.StartObserving(c.sendEvent)
}

// unobserve clears the bridge listener only if c still owns it.
func (s *Server) unobserve(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observer != c {
		return
	}
	s.observer = nil
	s.bridge.StopObserving()
}
