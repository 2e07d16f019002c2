package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/mystore/api/routes"
	"github.com/angelmondragon/mystore/internal/orders"
	"github.com/angelmondragon/mystore/internal/products"
	"github.com/angelmondragon/mystore/internal/skus"
	"github.com/angelmondragon/mystore/pkg/config"
	"github.com/angelmondragon/mystore/pkg/db"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/metrics"
	"github.com/angelmondragon/mystore/pkg/migrate"
	"github.com/angelmondragon/mystore/pkg/redis"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	storeapi.UseNumericPrices()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	closeAll := func() {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		if err := multierr.Combine(errs...); err != nil {
			logg.Error(context.Background(), "error releasing resources", err)
		}
	}
	fail := func(msg string, err error) {
		logg.Error(ctx, msg, err)
		closeAll()
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fail("failed to bootstrap database", err)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.EnsureSchema(ctx, cfg, logg, dbClient); err != nil {
		fail("failed to prepare schema", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	productRepo := products.NewRepository(dbClient.DB())
	productSvc, err := products.NewService(productRepo)
	if err != nil {
		fail("failed to create product service", err)
	}
	orderSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), productRepo, dbClient, cfg.Client.TaxRate, logg)
	if err != nil {
		fail("failed to create order service", err)
	}
	skuSvc, err := skus.NewService(skus.NewRepository(dbClient.DB()), productRepo)
	if err != nil {
		fail("failed to create sku service", err)
	}

	deps := routes.Dependencies{
		DB:          dbClient,
		Products:    productSvc,
		Orders:      orderSvc,
		SKUs:        skuSvc,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			fail("failed to bootstrap redis", err)
		}
		closers = append(closers, redisClient.Close)
		deps.Redis = redisClient
		deps.Idempotency = redisClient
		deps.RateLimiter = redisClient
	} else {
		logg.Warn(ctx, "redis not configured; idempotent replay and rate limiting disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail("api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(context.Background(), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(context.Background(), "graceful shutdown failed", err)
		}
	}

	closeAll()
}
