// Package httptransport assembles the chi router: platform middleware,
// operational endpoints and the domain handlers.
package httptransport

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visadesk/internal/platform/metrics"
	"visadesk/internal/platform/middleware"
	"visadesk/pkg/platform/httputil"
)

// Registrar mounts a handler's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Check pings one backing service for /health.
type Check func(ctx context.Context) error

type Options struct {
	Logger         *slog.Logger
	Metrics        *metrics.HTTP
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	// Validator turns on bearer-token auth for API routes. Without it every
	// request is attributed to DefaultAgent.
	Validator    middleware.AgentValidator
	DefaultAgent string
	Checks       map[string]Check
}

// NewRouter wires the API. /health and /metrics sit outside auth.
func NewRouter(opts Options, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.Logger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Latency(opts.Metrics))
	}

	r.Get("/health", healthHandler(opts.Checks))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.Timeout(opts.RequestTimeout))
		if opts.Validator != nil {
			api.Use(middleware.RequireAgent(opts.Validator, opts.Logger))
		} else {
			api.Use(middleware.DefaultAgent(opts.DefaultAgent))
		}
		for _, h := range handlers {
			h.Register(api)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]Check) http.HandlerFunc {
	names := slices.Sorted(maps.Keys(checks))
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
