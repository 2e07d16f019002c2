package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/mystore/api/controllers"
	"github.com/angelmondragon/mystore/api/middleware"
	"github.com/angelmondragon/mystore/internal/orders"
	"github.com/angelmondragon/mystore/internal/products"
	"github.com/angelmondragon/mystore/internal/skus"
	"github.com/angelmondragon/mystore/pkg/config"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/metrics"
	"github.com/angelmondragon/mystore/pkg/redis"
)

// Dependencies are the collaborators the dev API routes need. Redis-backed stores
// are optional; leave them nil to disable idempotent replay and rate limiting.
type Dependencies struct {
	DB    controllers.Pinger
	Redis controllers.Pinger

	Idempotency redis.IdempotencyStore
	RateLimiter redis.RateLimitStore

	Products products.Service
	Orders   orders.Service
	SKUs     skus.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readyDeps := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readyDeps["db"] = deps.DB
	}
	if deps.Redis != nil {
		readyDeps["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	orderPolicy := middleware.NewRateLimitPolicy("orders", cfg.RateLimit.Window, cfg.RateLimit.OrdersPerWindow)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Idempotency, middleware.IdempotencyRules(cfg.Idempotency), logg))

		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Post("/products", controllers.CreateProduct(deps.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))

		r.With(middleware.RateLimit(orderPolicy, deps.RateLimiter, logg)).Post("/orders", controllers.PlaceOrder(deps.Orders, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))

		r.Get("/skus", controllers.ListSKUs(deps.SKUs, logg))
		r.Post("/skus", controllers.CreateSKU(deps.SKUs, logg))
	})

	return r
}
