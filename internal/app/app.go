package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/squadgrid/payment-dashboard/internal/api"
	"github.com/squadgrid/payment-dashboard/internal/api/middleware"
	"github.com/squadgrid/payment-dashboard/internal/config"
	"github.com/squadgrid/payment-dashboard/internal/gateway"
	"github.com/squadgrid/payment-dashboard/internal/idempotency"
	"github.com/squadgrid/payment-dashboard/internal/observability"
	"github.com/squadgrid/payment-dashboard/internal/service"
	"github.com/squadgrid/payment-dashboard/internal/store"
	"github.com/squadgrid/payment-dashboard/internal/worker"
	"go.uber.org/zap"
)

// Run bootstraps the HTTP server and yield worker, blocking until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()
	middleware.SetJWTSecret(cfg.JWTSecret)
	middleware.SetJWTValidation(cfg.JWTIssuer, cfg.JWTAudience)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The replay cache is optional: without REDIS_URL the idempotency store
	// runs purely in memory.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = newRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
	}

	var redisCmdable redis.Cmdable
	if redisClient != nil {
		redisCmdable = redisClient
	}
	idemStore := idempotency.NewStore(redisCmdable, cfg.IdempotencyTTL)

	ledger := store.NewSeeded(store.WithWidgetOrigin(cfg.WidgetOrigin))
	logger.Info("ledger seeded",
		zap.Int("links", len(ledger.AllPaymentLinks())),
		zap.Int("accounts", len(ledger.AllVirtualAccounts())),
		zap.Int("transactions", len(ledger.AllTransactions())))

	mockGateway := gateway.NewMockGateway()
	mockGateway.FailureRate = cfg.PaymentFailureRate

	yieldSvc := service.NewYieldService(ledger)
	yieldWorker := worker.NewYieldWorker(yieldSvc).WithInterval(cfg.YieldInterval)
	stopWorker := yieldWorker.Run(ctx)
	logger.Info("yield worker started", zap.Duration("interval", cfg.YieldInterval))

	router := api.NewRouter(cfg, logger, ledger, mockGateway, idemStore, redisCmdable)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("port", cfg.HTTPPort))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("stopping yield worker")
	stopWorker()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
