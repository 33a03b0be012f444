package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Orders     *OrderHandler
	Items      *ItemHandler
	Revenue    *RevenueHandler
	Health     Pinger
	StaffToken string
	Logger     logger.Logger
}

// NewRouter registers every route with and without the trailing slash. All
// routes but /health sit behind the staff check.
func NewRouter(cfg RouterConfig) http.Handler {
	staff := RequireStaff(cfg.StaffToken)
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, staff(h))
	}
	resource := func(prefix string, list, create, get, update, del http.HandlerFunc) {
		handle("GET "+prefix+"/{$}", list)
		handle("GET "+prefix, list)
		handle("POST "+prefix+"/{$}", create)
		handle("POST "+prefix, create)
		for _, p := range []string{prefix + "/{id}/{$}", prefix + "/{id}"} {
			handle("GET "+p, get)
			handle("PUT "+p, update)
			handle("PATCH "+p, update)
			handle("DELETE "+p, del)
		}
	}

	resource("/orders", cfg.Orders.List, cfg.Orders.Create, cfg.Orders.Get, cfg.Orders.Update, cfg.Orders.Delete)
	resource("/items", cfg.Items.List, cfg.Items.Create, cfg.Items.Get, cfg.Items.Update, cfg.Items.Delete)
	handle("POST /revenue/{$}", cfg.Revenue.Calculate)
	handle("POST /revenue", cfg.Revenue.Calculate)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := cfg.Health.Ping(ctx); err != nil {
			cfg.Logger.Error("health_check_failed", "Store is unreachable", logger.RequestID(r.Context()), nil, err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var handler http.Handler = mux
	handler = LoggingMiddleware(cfg.Logger)(handler)
	handler = RecoveryMiddleware(cfg.Logger)(handler)
	return otelhttp.NewHandler(handler, "cafe-service", otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return "HTTP " + r.Method + " " + r.URL.Path
	}))
}
