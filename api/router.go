// Package api assembles the HTTP surface of the service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/evswap/api/fleet"
	"github.com/kilianp07/evswap/api/httputil"
	"github.com/kilianp07/evswap/api/selections"
	"github.com/kilianp07/evswap/api/swap"
	"github.com/kilianp07/evswap/core/logger"
)

// Planner is the subset of the planner served over HTTP.
type Planner interface {
	swap.Planner
	selections.History
	fleet.Lister
}

// Options tunes the router.
type Options struct {
	// Token protects the selection log when set.
	Token string
	// Metrics serves /metrics. Nil uses the default Prometheus registry.
	Metrics http.Handler
	// Health reports readiness. Nil always reports ok.
	Health func(ctx context.Context) error
	Logger logger.Logger
}

// NewRouter wires the handlers and returns an http.Handler.
func NewRouter(p Planner, opts Options) http.Handler {
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	router := mux.NewRouter()
	router.HandleFunc("/healthz", healthHandler(opts.Health)).Methods(http.MethodGet)
	router.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)

	router.Handle("/api/swap/plan", swap.NewPlanHandler(p)).Methods(http.MethodPost)
	router.Handle("/api/selections", selections.NewLogHandler(p, opts.Token)).Methods(http.MethodGet)
	router.Handle("/api/fleet/eligible", fleet.NewEligibleHandler(p)).Methods(http.MethodGet)

	return loggingMiddleware(opts.Logger, router)
}

func healthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debugw("http request", map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}
