package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/mystore/internal/shell"
	"github.com/angelmondragon/mystore/internal/storefront"
	"github.com/angelmondragon/mystore/pkg/config"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/metrics"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

func main() {
	storeapi.UseNumericPrices()
	logg := logger.New(logger.Options{ServiceName: "storefront", Output: os.Stderr, Format: "console"})

	_ = godotenv.Load()

	apiURL := flag.String("api", "", "storefront API base url (overrides "+config.EnvAPIBaseURL+")")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.Client.APIBaseURL = *apiURL
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
		Format:      "console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "api", cfg.Client.APIBaseURL)

	client, err := storeapi.NewClient(cfg.Client.APIBaseURL, storeapi.WithTimeout(cfg.Client.HTTPTimeout))
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		os.Exit(1)
	}
	gateway, err := storefront.NewAPIGateway(client)
	if err != nil {
		logg.Error(ctx, "failed to create gateway", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	session, err := storefront.NewSession(gateway, gateway,
		storefront.WithLogger(logg),
		storefront.WithMetrics(metrics.NewStorefrontMetrics(reg)),
		storefront.WithTaxRate(cfg.Client.TaxRate),
	)
	if err != nil {
		logg.Error(ctx, "failed to create session", err)
		os.Exit(1)
	}

	if cfg.Client.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.Client.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	sh, err := shell.New(session, client, os.Stdin, os.Stdout, logg)
	if err != nil {
		logg.Error(ctx, "failed to create shell", err)
		os.Exit(1)
	}

	// Reading stdin cannot be interrupted, so a signal ends the process without waiting for it.
	done := make(chan error, 1)
	go func() {
		done <- sh.Run(ctx)
	}()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "storefront stopped", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(context.Background(), "interrupted")
	}
}
