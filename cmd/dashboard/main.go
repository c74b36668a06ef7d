package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/siweifamily/dashboard/internal/cache"
	"github.com/siweifamily/dashboard/internal/clock"
	"github.com/siweifamily/dashboard/internal/commute"
	"github.com/siweifamily/dashboard/internal/config"
	"github.com/siweifamily/dashboard/internal/currency"
	"github.com/siweifamily/dashboard/internal/dashboard"
	"github.com/siweifamily/dashboard/internal/fuel"
	httphandler "github.com/siweifamily/dashboard/internal/http"
	"github.com/siweifamily/dashboard/internal/observability"
	"github.com/siweifamily/dashboard/internal/scheduler"
	"github.com/siweifamily/dashboard/internal/weather"
)

func main() {
	app := &cli.App{
		Name:  "dashboard",
		Usage: "family dashboard: world clock, rates, weather, fuel and commute",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the dashboard HTTP server",
				Action: runServe,
			},
			{
				Name:   "snapshot",
				Usage:  "evaluate every feed once and print the snapshot as JSON",
				Action: runSnapshot,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildService wires the feeds, cache and estimator from config. The
// returned memcached client is nil when the in-memory backend is used.
func buildService(cfg *config.Config, logger *zap.Logger) (*dashboard.Service, *cache.MemcachedCache, error) {
	var feedCache cache.Cache
	var memcached *cache.MemcachedCache
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			return nil, nil, fmt.Errorf("memcached cache: %w", err)
		}
		memcached = mc
		feedCache = mc
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		feedCache = cache.NewMemoryCache()
		logger.Info("cache backend: in_memory")
	}

	currencyFetcher := currency.NewFetcher(
		currency.NewClient(cfg.CurrencyFeedURL, cfg.CurrencyTimeout),
		logger,
	)
	weatherFetcher := weather.NewFetcher(
		weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherTimeout),
		cfg.WeatherLocations,
		logger,
	)
	fuelScraper := fuel.NewScraper(cfg.FuelPageURL, cfg.FuelTimeout, logger)

	var router commute.Router
	if cfg.RoutingAPIKey != "" {
		router = commute.NewGoogleRouter(cfg.RoutingAPIURL, cfg.RoutingAPIKey, cfg.RoutingLanguage, cfg.RoutingTimeout)
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set; commute legs will render as not configured")
	}
	estimator := commute.NewEstimator(router, logger)

	svc := dashboard.NewService(
		clock.New(),
		currencyFetcher,
		weatherFetcher,
		fuelScraper,
		estimator,
		feedCache,
		dashboard.TTLs{Currency: cfg.CurrencyTTL, Weather: cfg.WeatherTTL, Fuel: cfg.FuelTTL},
		cfg.HomeAddress,
		cfg.Destinations,
		logger,
	)
	return svc, memcached, nil
}

func runServe(c *cli.Context) error {
	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	svc, memcached, err := buildService(cfg, logger)
	if err != nil {
		return err
	}

	var cachePing func() error
	if memcached != nil {
		cachePing = memcached.Ping
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	handler := httphandler.NewHandler(svc, logger, cachePing)

	sched := scheduler.New(svc, cfg.WarmInterval, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	defer sched.Stop()

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	pageRouter := router.PathPrefix("/").Subrouter()
	pageRouter.Use(httphandler.RateLimitMiddleware(limiter))
	pageRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	pageRouter.HandleFunc("/api/dashboard", handler.GetDashboard).Methods("GET")
	pageRouter.HandleFunc("/api/refresh", handler.PostRefresh).Methods("POST")
	pageRouter.HandleFunc("/", handler.GetPage).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}

	if memcached != nil {
		if err := memcached.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
	return nil
}

func runSnapshot(c *cli.Context) error {
	logger := zap.NewNop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	svc, memcached, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	if memcached != nil {
		defer func() { _ = memcached.Close() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	snap := svc.Snapshot(ctx)
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
