package main

import (
	"context"
	"easy11ML/app/echo-server/router"
	"easy11ML/business/churn"
	"easy11ML/business/content"
	"easy11ML/business/featurestore"
	"easy11ML/business/forecasting"
	"easy11ML/business/governance"
	"easy11ML/business/pricing"
	"easy11ML/business/recommendation"
	"easy11ML/internal/middleware"
	"easy11ML/internal/repository/memory"
	psqlRepo "easy11ML/internal/repository/postgres"
	redisRepo "easy11ML/internal/repository/redis"
	"easy11ML/internal/rest"
	"easy11ML/pkg/config"
	"easy11ML/pkg/database"
	redisdb "easy11ML/pkg/database/redis"
	"easy11ML/pkg/logger"
	"easy11ML/pkg/metrics"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Easy11 ML Service", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	registry, err := featurestore.LoadRegistry(cfg.FeatureStore.RegistryPath)
	if err != nil {
		logger.Fatal("Failed to load feature registry", "error", err)
	}

	// Online feature store, optional
	var (
		store  featurestore.Reader = featurestore.NullStore{}
		pinger rest.StorePinger
	)
	client, err := redisdb.Connect(context.Background(), cfg.Redis, cfg.FeatureStore.Timeout)
	switch {
	case errors.Is(err, redisdb.ErrDisabled):
		logger.Info("Feature store disabled, serving defaults")
	case err != nil:
		logger.Warn("Feature store unavailable, serving defaults", "error", err)
	default:
		defer redisdb.Close(client)
		guarded := featurestore.NewGuardedReader(redisRepo.NewFeatureRepository(client, registry), featurestore.BreakerConfig{
			Name:             "feature-store",
			Timeout:          cfg.FeatureStore.Timeout,
			FailureThreshold: cfg.FeatureStore.FailureThreshold,
			OpenTimeout:      cfg.FeatureStore.OpenTimeout,
		})
		store = guarded
		pinger = guarded
		logger.Info("Feature views registered", "views", registry.ListFeatureViews())
	}

	// Audit log and run history
	var (
		auditRepo governance.AuditRepository = memory.NewAuditRepository()
		runRepo   rest.RunHistory            = memory.NewPipelineRunRepository()
	)
	if cfg.Database.Enabled {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		if err := psqlRepo.Migrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		auditRepo = psqlRepo.NewAuditRepository(db)
		runRepo = psqlRepo.NewPipelineRunRepository(db)
		logger.Info("Database connected successfully")
	}

	// Init validate
	validate := validator.New()

	// Init service
	governanceService := governance.NewService(auditRepo)
	if err := governanceService.Seed(context.Background()); err != nil {
		logger.Warn("Failed to seed audit log", "error", err)
	}
	recommendationService := recommendation.NewService(store)
	pricingService := pricing.NewService(store, governanceService)
	forecastingService := forecasting.NewService()
	churnService := churn.NewService()
	contentService := content.NewService()

	// Init handler
	serviceHandler := rest.NewServiceHandler(cfg.App.Name, cfg.App.Version, pinger, runRepo)
	recommendationHandler := rest.NewRecommendationHandler(recommendationService, validate)
	pricingHandler := rest.NewPricingHandler(pricingService, validate)
	forecastHandler := rest.NewForecastHandler(forecastingService, validate)
	churnHandler := rest.NewChurnHandler(churnService, validate)
	generativeHandler := rest.NewGenerativeHandler(contentService, validate)
	governanceHandler := rest.NewGovernanceHandler(governanceService, validate)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.ContextTimeout(cfg.Server.RequestTimeout))

	// Setup routes
	router.SetupServiceRoutes(e, serviceHandler)
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recommendationHandler)
	router.SetupPricingRoutes(api, pricingHandler)
	router.SetupForecastRoutes(api, forecastHandler)
	router.SetupChurnRoutes(api, churnHandler)
	router.SetupGenerativeRoutes(api, generativeHandler)
	router.SetupGovernanceRoutes(api, governanceHandler)
	router.SetupPipelineRoutes(api, serviceHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
