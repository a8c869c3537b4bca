// Package admin composes the dashboard API: login, product management and
// order lookup, all admin-gated except the login itself.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"farmergiant/internal/auth"
	"farmergiant/internal/catalog"
	"farmergiant/internal/order"
	"farmergiant/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Auth    *auth.Server
	Catalog *catalog.Server
	Orders  *order.Server
}

const (
	loginLimitPerMin = 5
	loginLimitWindow = time.Minute
)

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(httpDeps.Log))

	if httpDeps.Registry != nil {
		metrics := kit.NewMetrics(httpDeps.Registry)
		r.Use(metrics.Middleware(httpDeps.Service, kit.ChiRoutePatternOrPath))

		if httpDeps.MetricsEnabled {
			r.With(kit.MetricsAuth(httpDeps.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(httpDeps.Registry, promhttp.HandlerOpts{}))
		}
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, loginLimitWindow)
	r.Mount("/auth", deps.Auth.Routes(loginLimiter.Middleware))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin(deps.Auth.JWT))
		pr.Mount("/products", deps.Catalog.AdminRoutes())
		pr.Mount("/orders", deps.Orders.AdminRoutes())
	})

	return r
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := deps.Auth.Store.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: auth store", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		if err := deps.Catalog.Store.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: catalog store", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
