package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecbrates/internal/adapters"
	"ecbrates/internal/adapters/cache"
	"ecbrates/internal/adapters/ecb"
	"ecbrates/internal/adapters/postgres"
	"ecbrates/internal/api"
	"ecbrates/internal/config"
	"ecbrates/internal/platform/db"
	httpserver "ecbrates/internal/platform/http"
	"ecbrates/internal/platform/metrics"
	"ecbrates/internal/rate"
	"ecbrates/internal/rate/handler"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	startupTimeout        = 30 * time.Second
	defaultHTTPTimeout    = 10 * time.Second
	cacheBackendRistretto = "ristretto"
	cacheBackendRedis     = "redis"
)

// Run wires the application components, starts HTTP server and scheduler
func Run(configFile string) error {
	appCfg, err := config.Init(configFile)
	if err != nil {
		return err
	}
	setupLogger(appCfg.Logging)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations, first fetch)
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := db.Open(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection and migrations successful")

	snapshotRepo := postgres.NewSnapshotRepository(pool)

	supportedCodes, err := snapshotRepo.SupportedCurrencies(startupCtx)
	if err != nil || len(supportedCodes) == 0 {
		if err == nil {
			err = errors.New("no supported currencies available")
		}
		logrus.WithError(err).Error("Failed to load supported currencies")
		return err
	}
	logrus.WithField("count", len(supportedCodes)).Info("✅ Supported currencies loaded")

	rateCache, closeCache, err := newRateCache(startupCtx, appCfg.Cache)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rate cache")
		return err
	}
	defer closeCache()
	logrus.WithField("backend", appCfg.Cache.Backend).Info("✅ Rate cache ready")

	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = defaultHTTPTimeout
	}
	ecbClient := ecb.NewClient(&http.Client{Timeout: httpTimeout}, appCfg.ECB.DailyURL)

	appMetrics := metrics.New()
	rateValidator := rate.NewValidator(supportedCodes)
	rateService := rate.NewService(rateValidator, ecbClient, snapshotRepo, rateCache, appMetrics)

	// A failed first refresh is not fatal: lookups fall back to stored rates.
	if refreshErr := rateService.Refresh(startupCtx); refreshErr != nil {
		logrus.WithError(refreshErr).Warn("Initial reference rates refresh failed")
	} else {
		logrus.Info("✅ Reference rates loaded")
	}

	scheduler := rate.NewScheduler(rateService, time.Duration(appCfg.Scheduler.RefreshIntervalSec)*time.Second)
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.WithError(shutDownErr).Error("Scheduler shutdown error")
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}

	rateHandler := handler.NewRateHandler(rateService, rateValidator)
	router := api.NewRouter(rateHandler, appMetrics.Handler())

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.WithError(serverErr).Error("HTTP server error")
		return serverErr
	}
	return nil
}

func setupLogger(cfg config.Logging) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
}

// newRateCache builds the configured cache backend. The returned func releases it.
func newRateCache(ctx context.Context, cfg config.Cache) (adapters.RateCache, func(), error) {
	switch cfg.Backend {
	case "", cacheBackendRistretto:
		c, err := cache.NewRistrettoRateCache(cfg.MaxItems, cfg.TTL())
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case cacheBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisRateCache(rdb, cfg.TTL()), func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
