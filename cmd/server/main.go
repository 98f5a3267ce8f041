// Command server runs the reference Geocoding and Analysis backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/climate-credit-score/internal/adapter/geocache"
	"github.com/couchcryptid/climate-credit-score/internal/adapter/httpadapter"
	"github.com/couchcryptid/climate-credit-score/internal/adapter/mapbox"
	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
	"github.com/couchcryptid/climate-credit-score/internal/riskengine"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var (
		rdb   *redis.Client
		cache redis.Cmdable // stays a nil interface when Redis is off
	)
	if cfg.RedisAddr != "" {
		rdb = geocache.NewRedisClient(cfg.RedisAddr)
		cache = rdb
		logger.Info("redis geocode cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RedisCacheTTL)
	}

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = geocache.Stack(client, cfg, cache, metrics, logger)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Warn("mapbox geocoding disabled, /api/geocode will report unavailable")
	}

	engine := riskengine.New(cfg.ResultCacheSize, logger)

	ready := httpadapter.ReadinessFunc(func(ctx context.Context) error {
		if rdb == nil {
			return nil
		}
		return geocache.Ping(ctx, rdb)
	})
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, geocoder, engine, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
