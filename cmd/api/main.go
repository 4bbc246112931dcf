package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/aggregator"
	"github.com/feral-file/ff-project-intel/internal/api/middleware"
	"github.com/feral-file/ff-project-intel/internal/api/server"
	"github.com/feral-file/ff-project-intel/internal/api/shared/executor"
	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/datasource"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "project-intel-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting project intel API")

	// Stores
	registry := datasource.NewRegistry()
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := registry.CloseAll(closeCtx); err != nil {
			logger.Error(err, zap.String("component", "registry"))
		}
	}()

	var managerOpts []store.ManagerOption
	if cfg.MongoDB.Host != "" {
		managerOpts = append(managerOpts, store.WithDocumentStore(datasource.FromMongoDB(cfg.MongoDB)))
	}
	manager := store.NewManager(registry, store.NewRetryPolicy(cfg.Retry), datasource.FromMySQL(cfg.MySQL), managerOpts...)

	clock := adapter.NewClock()
	stores := store.NewStores(manager, clock, "")
	engine := aggregator.NewEngine(stores.Projects, stores.Snapshots)

	// Redis backs the profile cache and the rate limiter; both are optional
	var (
		cache   adapter.RedisClient
		limiter adapter.RedisRateLimiter
	)
	if cfg.Redis.Addr != "" {
		redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error(err, zap.String("component", "redis"))
			}
		}()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WarnCtx(ctx, "Redis unreachable at startup, cache requests will fall through", zap.Error(err))
		} else {
			logger.InfoCtx(ctx, "Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
		cache = redisClient
		limiter = redisClient.NewRateLimiter()
	} else {
		logger.WarnCtx(ctx, "Redis not configured, caching and rate limiting are disabled")
	}

	exec := executor.NewExecutor(engine, cache, adapter.NewJSON(), cfg.Redis.CacheTTL)

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}

	srv := server.New(serverConfig, exec, limiter)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
