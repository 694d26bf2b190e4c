package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/squadgrid/payment-dashboard/internal/api/handler"
	"github.com/squadgrid/payment-dashboard/internal/api/middleware"
	"github.com/squadgrid/payment-dashboard/internal/api/spec"
	"github.com/squadgrid/payment-dashboard/internal/config"
	"github.com/squadgrid/payment-dashboard/internal/gateway"
	"github.com/squadgrid/payment-dashboard/internal/idempotency"
	"github.com/squadgrid/payment-dashboard/internal/service"
	"github.com/squadgrid/payment-dashboard/internal/store"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *store.Store
	gateway   gateway.Gateway
	idemStore *idempotency.Store
	redis     redis.Cmdable
}

func NewRouter(cfg *config.Config, logger *zap.Logger, st *store.Store, gw gateway.Gateway, idemStore *idempotency.Store, redisClient redis.Cmdable) *Router {
	return &Router{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		gateway:   gw,
		idemStore: idemStore,
		redis:     redisClient,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))

	// Services
	paymentSvc := service.NewPaymentService(api.store, api.gateway)
	transferSvc := service.NewTransferService(api.store, api.gateway)
	analyticsSvc := service.NewAnalyticsService(api.store)

	// Handlers
	authHandler := handler.NewAuthHandler()
	linkHandler := handler.NewPaymentLinkHandler(api.store)
	checkoutHandler := handler.NewCheckoutHandler(api.store)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	txHandler := handler.NewTransactionHandler(api.store)
	widgetHandler := handler.NewWidgetHandler(api.store)
	accountHandler := handler.NewAccountHandler(api.store)
	transferHandler := handler.NewTransferHandler(transferSvc)
	yieldHandler := handler.NewYieldHandler(api.store)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	healthHandler := handler.NewHealthHandler(api.redis)

	// Operational surface
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Public routes: the checkout page and the payer-facing payment flow are
	// reachable without a dashboard token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

		r.Post("/v1/auth/login", authHandler.Login)
		r.Get("/v1/checkout/{linkId}", checkoutHandler.Get)
		r.With(middleware.IdempotencyMiddleware(api.idemStore, api.logger)).Post("/v1/payments", paymentHandler.Process)
	})

	// Protected dashboard routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		// Payment links
		r.Get("/v1/payment-links", linkHandler.List)
		r.Post("/v1/payment-links", linkHandler.Create)
		r.Get("/v1/payment-links/{linkId}", linkHandler.Get)
		r.Patch("/v1/payment-links/{linkId}", linkHandler.UpdateStatus)
		r.Delete("/v1/payment-links/{linkId}", linkHandler.Delete)
		r.Get("/v1/payment-links/{linkId}/transactions", linkHandler.Transactions)

		// Transactions
		r.Get("/v1/transactions", txHandler.List)
		r.Get("/v1/transactions/cross-border", txHandler.CrossBorder)

		// Widgets
		r.Get("/v1/widgets", widgetHandler.List)
		r.Post("/v1/widgets", widgetHandler.Create)
		r.Get("/v1/widgets/{widgetId}", widgetHandler.Get)
		r.Delete("/v1/widgets/{widgetId}", widgetHandler.Delete)

		// Virtual accounts
		r.Get("/v1/accounts", accountHandler.List)
		r.Post("/v1/accounts", accountHandler.Create)
		r.Get("/v1/accounts/{accountId}", accountHandler.Get)
		r.Delete("/v1/accounts/{accountId}", accountHandler.Delete)
		r.Get("/v1/accounts/{accountId}/transactions", accountHandler.Transactions)
		r.Get("/v1/accounts/{accountId}/yield", yieldHandler.ByAccount)

		// Transfers
		idem := middleware.IdempotencyMiddleware(api.idemStore, api.logger)
		r.With(idem).Post("/v1/transfers/internal", transferHandler.Transfer)
		r.With(idem).Post("/v1/transfers/cross-border", transferHandler.CrossBorder)
		r.With(idem).Post("/v1/transfers/deposit", transferHandler.Deposit)
		r.With(idem).Post("/v1/transfers/withdraw", transferHandler.Withdraw)

		// Yield
		r.Get("/v1/yield", yieldHandler.List)
		r.Post("/v1/yield", yieldHandler.Create)

		// Analytics
		r.Get("/v1/analytics", analyticsHandler.Get)
	})

	return r
}
