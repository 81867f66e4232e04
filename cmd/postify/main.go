package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/postify/postify/internal/analytics"
	"github.com/postify/postify/internal/app"
	"github.com/postify/postify/internal/cart"
	"github.com/postify/postify/internal/catalog/categories"
	"github.com/postify/postify/internal/catalog/products"
	"github.com/postify/postify/internal/checkout"
	"github.com/postify/postify/internal/employees"
	"github.com/postify/postify/internal/identity"
	"github.com/postify/postify/internal/observability"
	"github.com/postify/postify/internal/platform/cache"
	"github.com/postify/postify/internal/platform/db"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/sales"
	"github.com/postify/postify/internal/settings"
	"github.com/postify/postify/internal/shared"
	"github.com/postify/postify/internal/stock"
	"github.com/postify/postify/jobs"
)

const defaultCurrency = "MXN"

// storeNames resolves store display names for the sign-in flow.
type storeNames struct {
	settings *settings.Service
}

func (s storeNames) StoreName(ctx context.Context, storeID string) (string, error) {
	doc, err := s.settings.Get(ctx, storeID)
	if err != nil {
		return "", err
	}
	return doc.StoreName, nil
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{
		MaxConns:    cfg.PGMaxConns,
		MaxIdleTime: cfg.PGMaxIdleTime,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "postify_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)
	guard := policy.Middleware{Logger: logger}
	metrics := observability.NewMetrics()

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(logger, settingsService, guard)

	productsRepo := products.NewRepository(pool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService, guard)

	categoriesRepo := categories.NewRepository(pool)
	categoriesService := categories.NewService(categoriesRepo)
	categoriesHandler := categories.NewHandler(logger, categoriesService, guard)

	employeesRepo := employees.NewRepository(pool)
	employeesService := employees.NewService(employeesRepo)
	employeesHandler := employees.NewHandler(logger, employeesService, guard)

	stockLedger := stock.NewLedger(pool)

	analyticsRepo := analytics.NewRepository(pool)
	analyticsCache := analytics.NewCache(redisClient, cfg.CacheTTL)
	analyticsService := analytics.NewService(analyticsRepo, analyticsCache)
	analyticsHandler := analytics.NewHandler(logger, analyticsService, guard)
	go func() {
		if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil && ctx.Err() == nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
	}()

	cartService := cart.NewService(productsService, stockLedger)
	cartHandler := cart.NewHandler(logger, cartService)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(logger, salesRepo, db.Runner(pool), stockLedger, analyticsService, auditLogger)
	salesHandler := sales.NewHandler(logger, salesService, guard)

	checkoutService := checkout.NewService(logger, db.Runner(pool), stockLedger, salesRepo, analyticsService, auditLogger)
	checkoutHandler := checkout.NewHandler(logger, checkoutService, metrics)

	ownersRepo := identity.NewRepository(pool)
	provision := func(ctx context.Context, storeID, storeName string) error {
		_, err := settingsService.Update(ctx, storeID, storeName, defaultCurrency)
		return err
	}
	identityService := identity.NewService(logger, ownersRepo, employeesRepo, storeNames{settings: settingsService}, provision)
	authHandler := identity.NewHandler(logger, identityService, sessionManager, csrfManager)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Guard:          guard,

		AuthHandler:       authHandler,
		ProductsHandler:   productsHandler,
		CategoriesHandler: categoriesHandler,
		SettingsHandler:   settingsHandler,
		EmployeesHandler:  employeesHandler,
		CartHandler:       cartHandler,
		CheckoutHandler:   checkoutHandler,
		SalesHandler:      salesHandler,
		AnalyticsHandler:  analyticsHandler,
		JobsHandler:       jobsHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
