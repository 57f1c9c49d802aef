package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"openexchangerates-service/internal/adapter/cache"
	httpRouter "openexchangerates-service/internal/adapter/http"
	"openexchangerates-service/internal/adapter/repository"
	"openexchangerates-service/internal/config"
	"openexchangerates-service/internal/domain/ports"
	"openexchangerates-service/internal/metrics"
	"openexchangerates-service/internal/service"
	"openexchangerates-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger(os.Getenv("LOG_LEVEL")).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting exchange rate service", "tier", cfg.Provider.Tier.String(), "cache", cfg.Cache.Driver)

	style, err := httpRouter.ParseResponseStyle(cfg.ResponseStyle)
	if err != nil {
		log.Error("Invalid response style", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(registry)

	store, closeStore, err := newCacheStore(cfg.Cache, log)
	if err != nil {
		log.Error("Failed to set up cache store", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	rateCache := cache.NewRateCache(store, cfg.Cache.TTL, log.With("component", "cache"), appMetrics)

	var limiter *rate.Limiter
	if cfg.Provider.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Provider.RPS), cfg.Provider.Burst)
	}
	transport := repository.NewThrottledTransport(&http.Client{Timeout: cfg.Provider.Timeout}, limiter)
	gateway := repository.NewGateway(transport, nil, log.With("component", "gateway"), appMetrics)

	exchangeService := service.NewExchangeService(service.Config{
		BaseURL:        cfg.Provider.BaseURL,
		AppID:          cfg.Provider.AppID,
		Tier:           cfg.Provider.Tier,
		Symbols:        cfg.Provider.Symbols,
		CoalesceMisses: cfg.Provider.Coalesce,
	}, gateway, rateCache, log, appMetrics)

	handler := httpRouter.NewHandler(exchangeService, log, style)
	router := httpRouter.NewRouter(handler, log, appMetrics, registry)
	app := router.SetupRoutes()
	app.Server().ReadTimeout = cfg.Server.ReadTimeout
	app.Server().WriteTimeout = cfg.Server.WriteTimeout
	app.Server().IdleTimeout = cfg.Server.IdleTimeout

	ctx, cancelSweep := context.WithCancel(context.Background())
	if memory, ok := store.(*cache.MemoryStore); ok {
		go sweepExpired(ctx, memory, cfg.Cache.SweepInterval, log)
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelSweep()

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

func newCacheStore(cfg config.CacheConfig, log *logger.Logger) (ports.CacheStore, func(), error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		store, err := cache.NewRedisStoreFromURL(cfg.RedisURL, cfg.KeyPrefix, log.With("component", "redis"))
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis unreachable: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error("Failed to close redis client", "error", err)
			}
		}, nil
	case config.CacheDriverNone:
		return cache.NullStore{}, func() {}, nil
	default:
		return cache.NewMemoryStore(log.With("component", "memory-cache")), func() {}, nil
	}
}

// sweepExpired drops expired entries from the in-process store so it does
// not grow without bound.
func sweepExpired(ctx context.Context, store *cache.MemoryStore, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			store.ClearExpired(ctx)
		case <-ctx.Done():
			log.Info("Stopping cache sweeper")
			return
		}
	}
}
