package debugserver

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugConfig configures the internal pprof/metrics server.
type DebugConfig struct {
	Enabled       bool
	ListenAddr    string // should stay "127.0.0.1:<port>" outside of local dev
	BasicAuthUser string
	BasicAuthPass string
}

// DefaultDebugConfig returns safe defaults: localhost only, disabled auth.
func DefaultDebugConfig() DebugConfig {
	return DebugConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the pprof/Prometheus server in the background and
// returns the *http.Server, which StopDebugServer shuts down. It binds
// cfg.ListenAddr exactly as given and does not check that the address is a
// loopback one. If cfg.Enabled is false it starts nothing and returns nil.
func StartDebugServer(cfg DebugConfig) (*http.Server, error) {
	if !cfg.Enabled {
		log.Println("debugserver: debug server disabled")
		return nil, nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}

	go func() {
		log.Printf("debugserver: debug server starting on %s", cfg.ListenAddr)
		log.Printf("  - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("  - metrics: http://%s/metrics", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("debugserver: debug server error: %v", err)
		}
	}()

	return srv, nil
}

func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StopDebugServer gracefully shuts down a server returned by
// StartDebugServer. It is a no-op if srv is nil.
func StopDebugServer(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
