package debugserver

import (
	"encoding/json"
	"net/http"

	"github.com/kickstream/ringbuf/ringbufmetrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ProducerStatsProvider is implemented by anything that can report the
// producer-side occupancy of a wrapped ring buffer.
type ProducerStatsProvider interface {
	Snapshot() ringbufmetrics.ProducerStats
}

// ConsumerStatsProvider is the consumer-side counterpart of
// ProducerStatsProvider.
type ConsumerStatsProvider interface {
	Snapshot() ringbufmetrics.ConsumerStats
}

// RouterConfig contains all dependencies needed to construct the stats
// router. Designed for dependency injection and testability, following the
// same shape as the rest of this stack's HTTP constructors.
type RouterConfig struct {
	// Producer reports producer-side stats (required).
	Producer ProducerStatsProvider

	// Consumer reports consumer-side stats (required).
	Consumer ConsumerStatsProvider

	// RateLimiter is an optional pre-configured rate limiter. If nil, a new
	// one is created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter. Only
	// used if RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins. If nil, only
	// localhost origins are allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware.
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	producer ProducerStatsProvider
	consumer ConsumerStatsProvider
}

// NewRouter constructs the stats HTTP router with all middleware and
// routes.
//
// NewRouter is PURE: no goroutines are started, no listeners are opened.
// This makes it safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   append([]string{"http://localhost:*", "http://127.0.0.1:*"}, cfg.CORSOrigins...),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	h := &routerHandlers{producer: cfg.Producer, consumer: cfg.Consumer}

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.handleGetStats)
		r.Get("/ratelimit", h.handleGetRateLimiterStats(rateLimiter))
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

type statsResponse struct {
	Producer ringbufmetrics.ProducerStats `json:"producer"`
	Consumer ringbufmetrics.ConsumerStats `json:"consumer"`
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Producer: h.producer.Snapshot(),
		Consumer: h.consumer.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *routerHandlers) handleGetRateLimiterStats(rl *IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rl.GetStats())
	}
}
