package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/iwvelando/deal-analyzer/internal/cache"
	"github.com/iwvelando/deal-analyzer/internal/server"
	"github.com/iwvelando/deal-analyzer/internal/store"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", ".env", "optional file of environment overrides")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load env file %s\", \"error\": \"%v\"}\n", *envFile, err)
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if *address != "" {
		cfg.Address = *address
	}

	logger, err := cfg.Logging.BuildLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	flushSentry := func() {}
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     "deal-analyzer@" + version,
		}); err != nil {
			logger.Error("sentry initialization failed", zap.String("op", "main"), zap.Error(err))
		} else {
			flushSentry = func() { sentry.Flush(2 * time.Second) }
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = serve(ctx, logger, cfg)
	stop()
	if err != nil {
		logger.Error("deal server failed", zap.String("op", "main"), zap.Error(err))
		sentry.CaptureException(err)
	}
	flushSentry()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// serve runs the HTTP server until ctx is cancelled. Store and cache are
// closed before it returns.
func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config) error {
	dealStore, err := store.Open(ctx, logger, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("failed to open %s deal store: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := dealStore.Close(); err != nil {
			logger.Warn("failed to close deal store", zap.String("op", "main.serve"), zap.Error(err))
		}
	}()

	resultCache, closeCache := openCache(ctx, logger, cfg)
	defer closeCache()

	handler := server.NewHandler(logger, server.Options{
		MaxBodySize: cfg.BodySizeBytes(),
		Version:     version,
		Store:       dealStore,
		Cache:       resultCache,
		RateLimit:   cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-serveCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.String("op", "main.serve"), zap.Error(err))
		}
	}()

	logger.Info("deal server starting",
		zap.String("op", "main.serve"),
		zap.String("address", cfg.Address),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("cache", cfg.Cache.Driver),
		zap.String("version", version),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on %s: %w", cfg.Address, err)
	}
	logger.Info("deal server stopped", zap.String("op", "main.serve"))
	return nil
}

// openCache returns the configured result cache and its cleanup function. An
// unreachable Redis falls back to the in-memory cache.
func openCache(ctx context.Context, logger *zap.Logger, cfg *server.Config) (cache.Cache, func()) {
	switch cfg.Cache.Driver {
	case server.CacheDriverNone:
		return nil, func() {}
	case server.CacheDriverRedis:
		redisCache := cache.NewRedisCache(cfg.Cache.Address, cfg.Cache.Password, cfg.Cache.DB, cfg.CacheTTL())
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, using in-memory cache",
				zap.String("op", "main.openCache"),
				zap.String("address", cfg.Cache.Address),
				zap.Error(err),
			)
			_ = redisCache.Close()
			return cache.NewMemoryCache(cfg.CacheTTL()), func() {}
		}
		return redisCache, func() { _ = redisCache.Close() }
	default:
		return cache.NewMemoryCache(cfg.CacheTTL()), func() {}
	}
}
