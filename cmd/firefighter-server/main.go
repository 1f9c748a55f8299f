package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/emberworks/firefighter-simulator/internal/api"
	"github.com/emberworks/firefighter-simulator/internal/config"
	"github.com/emberworks/firefighter-simulator/internal/logging"
	"github.com/emberworks/firefighter-simulator/internal/observability"
)

func main() {
	httpAddr := flag.String("http-addr", "", "TCP address the HTTP API listens on (overrides FIRESIM_HTTP_ADDR)")
	catalogPath := flag.String("catalog", "", "Path to the YAML graph catalog (overrides FIRESIM_CATALOG)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error(ctx, "invalid configuration", logging.Err(err))
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Error(ctx, "failed to load graph catalog", logging.Err(err))
		os.Exit(1)
	}

	httpMetrics, err := observability.NewHTTPCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise HTTP metrics", logging.Err(err))
		os.Exit(1)
	}
	simMetrics, err := observability.NewSimulationCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise simulation metrics", logging.Err(err))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	server := api.NewServer(cfg, catalog, log, httpMetrics, simMetrics)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info(ctx, "starting firefighter API server",
		logging.String("addr", cfg.HTTPAddr),
		logging.String("catalog", cfg.CatalogPath))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server exited", logging.Err(err))
			os.Exit(1)
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down firefighter API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown incomplete", logging.Err(err))
	}
}
