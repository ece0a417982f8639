package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/config"
	"github.com/HSouheill/mlm_backoffice/controllers"
	"github.com/HSouheill/mlm_backoffice/middleware"
	"github.com/HSouheill/mlm_backoffice/repositories"
	"github.com/HSouheill/mlm_backoffice/routes"
	"github.com/HSouheill/mlm_backoffice/services"
	"github.com/HSouheill/mlm_backoffice/websocket"
	"github.com/HSouheill/mlm_backoffice/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open storage")
	}

	// Token revocation lives in Redis when it answers
	redisClient := config.ConnectRedis(ctx, cfg, log)
	var tokens services.TokenStore = services.NewMemoryTokenStore()
	if redisClient != nil {
		tokens = services.NewRedisTokenStore(redisClient)
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub(log.WithField("component", "websocket"))
	go wsHub.Run(ctx)

	// Services
	engine := services.NewCommissionEngine(log)
	authService := services.NewAuthService(store, tokens, cfg.JWTSecret, cfg.TokenTTL, log)
	repService := services.NewRepresentativeService(store, wsHub, log)
	catalogService := services.NewCatalogService(store, wsHub, log)
	customerService := services.NewCustomerService(store, wsHub, log)
	salesService := services.NewSalesService(store, engine, wsHub, log)
	commissionService := services.NewCommissionService(store, wsHub, log)
	chainService := services.NewSalesChainService(store, cfg.MaxChainDepth, log)
	dashboardService := services.NewDashboardService(store)
	insightService := services.NewInsightService(store)

	if cfg.SeedDemoData {
		seeder := services.NewSeeder(store, repService, catalogService, customerService, salesService, commissionService, log)
		if err := seeder.Seed(ctx); err != nil {
			log.WithError(err).Fatal("failed to seed demo data")
		}
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewValidator()

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS(cfg.CORSAllowedOrigins))
	e.Use(middleware.SecurityHeaders(!cfg.IsDevelopment()))
	e.Use(echoMiddleware.BodyLimit("1M"))

	routes.SetupRoutes(e, authService, wsHub, rateLimiter, &routes.Controllers{
		Auth:            controllers.NewAuthController(authService),
		Representatives: controllers.NewRepresentativeController(repService, commissionService),
		Products:        controllers.NewProductController(catalogService),
		Customers:       controllers.NewCustomerController(customerService),
		Sales:           controllers.NewSalesController(salesService, commissionService),
		Commissions:     controllers.NewCommissionController(commissionService),
		Dashboard:       controllers.NewDashboardController(dashboardService, chainService, insightService),
		Health:          controllers.NewHealthController(store, redisClient),
	})

	// Background jobs
	scheduler, err := workers.NewScheduler(catalogService, tokens, rateLimiter, wsHub, log.WithField("component", "workers"))
	if err != nil {
		log.WithError(err).Fatal("failed to create scheduler")
	}
	if err := scheduler.Start(ctx, cfg.LowStockScan); err != nil {
		log.WithError(err).Fatal("failed to start background jobs")
	}

	// Start server
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "storage": cfg.StorageDriver}).Info("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if err := scheduler.Shutdown(); err != nil {
		log.WithError(err).Error("scheduler shutdown")
	}
	closeRedis(redisClient, log)
	if err := store.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("storage close")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (repositories.Store, error) {
	if cfg.StorageDriver != config.StorageMongo {
		log.Info("using in-memory storage")
		return repositories.NewMemoryStore(), nil
	}

	client, err := config.ConnectDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	store := repositories.NewMongoStore(client, cfg.DBName, cfg.MongoTransactions)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	return store, nil
}

func closeRedis(client *redis.Client, log logrus.FieldLogger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.WithError(err).Error("redis close")
	}
}
