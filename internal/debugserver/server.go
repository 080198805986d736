package debugserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server bundles the stats API router and the WebSocket broadcast hub
// behind a single Start/Stop lifecycle.
type Server struct {
	router *chi.Mux
	wsHub  *WebSocketHub

	httpSrv *http.Server
	stop    chan struct{}
}

// NewServer constructs a Server from cfg. The returned Server hasn't
// started listening or broadcasting yet — call Start for that.
func NewServer(cfg RouterConfig) *Server {
	wsHub := NewWebSocketHub()
	router := NewRouter(cfg)
	router.Get("/ws", wsHub.HandleWebSocket)

	return &Server{
		router: router,
		wsHub:  wsHub,
		stop:   make(chan struct{}),
	}
}

// Start begins serving HTTP and WebSocket traffic on addr, and starts
// broadcasting producer/consumer stats to connected WebSocket clients every
// interval. Start blocks until the server stops or fails; run it in its own
// goroutine.
func (s *Server) Start(addr string, producer ProducerStatsProvider, consumer ConsumerStatsProvider, interval time.Duration) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(producer, consumer, interval, s.stop)

	s.httpSrv = &http.Server{Addr: addr, Handler: s.router}
	log.Printf("debugserver: stats server starting on %s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Router exposes the underlying chi.Mux, primarily so tests can drive it
// with httptest.NewServer without going through Start.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop shuts the server down, closing the broadcast loop and the HTTP
// listener.
func (s *Server) Stop(ctx context.Context) error {
	close(s.stop)
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
