// Package storefront composes the public shopping API: catalog reads,
// session carts, the notification feed and checkout, on one router.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"farmergiant/internal/cart"
	"farmergiant/internal/catalog"
	"farmergiant/internal/notify"
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
	Catalog *catalog.Server
	Cart    *cart.Server
	Notify  *notify.Server
	Orders  *order.Server
}

const (
	readyTimeout        = 2 * time.Second
	checkoutLimitPerMin = 10
)

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Mount("/products", deps.Catalog.Routes())
	r.Mount("/cart", deps.Cart.Routes())
	r.Mount("/notifications", deps.Notify.Routes())

	checkoutLimiter := kit.NewIPRateLimiter(checkoutLimitPerMin, time.Minute)
	r.Group(func(pr chi.Router) {
		pr.Use(checkoutLimiter.Middleware)
		pr.Mount("/orders", deps.Orders.Routes())
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

type pinger interface {
	Ping(ctx context.Context) error
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := []struct {
			name string
			p    pinger
		}{
			{"catalog", deps.Catalog.Store},
			{"orders", deps.Orders.Store},
		}
		if p, ok := deps.Cart.Slot.(pinger); ok {
			checks = append(checks, struct {
				name string
				p    pinger
			}{"cart", p})
		}

		for _, c := range checks {
			if err := c.p.Ping(ctx); err != nil {
				if log != nil {
					log.Warn("readyz failed", zap.String("dep", c.name), zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, c.name+" not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
