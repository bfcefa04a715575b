package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sofida/app/echo-server/router"
	"sofida/business/demand"
	"sofida/business/discount"
	"sofida/internal/middleware"
	"sofida/internal/repository/artifact"
	psqlRepo "sofida/internal/repository/postgres"
	redisRepo "sofida/internal/repository/redis"
	"sofida/internal/rest"
	"sofida/pkg/config"
	"sofida/pkg/database"
	redisdb "sofida/pkg/database/redis"
	"sofida/pkg/logger"
	"sofida/pkg/metrics"
	"sofida/pkg/utils"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting discount engine", "version", cfg.App.Version)

	utils.InitJWT(cfg.Auth.JWTSecret)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init model artifact store
	store := artifact.NewStore(cfg.Artifact.Prefix)
	if cfg.Artifact.EagerLoad {
		if err := store.Reload(); err != nil {
			logger.Warn("Eager artifact load failed, serving degraded until reload", "error", err)
		} else {
			logger.Info("Model artifacts loaded", "prefix", cfg.Artifact.Prefix)
		}
	}

	// Init repo
	var popRepo discount.PopularityRepository = psqlRepo.NewPopularityRepository(db)
	eventRepo := psqlRepo.NewDiscountEventRepository(db)
	historyRepo := psqlRepo.NewOrderHistoryRepository(db)

	// Redis is optional; without it popularity lookups hit postgres directly.
	if cfg.Redis.RedisHost != "" {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, popularity cache disabled", "error", err)
		} else {
			defer func() {
				if err := redisdb.CloseRedisClient(redisClient); err != nil {
					logger.Error("Failed to close redis client", "error", err)
				}
			}()
			popRepo = redisRepo.NewPopularityCache(redisClient, popRepo)
			logger.Info("Redis connected, popularity cache enabled")
		}
	}

	// Init service
	discountCfg := discount.DefaultConfig()
	discountCfg.DefaultPlaceID = cfg.Discount.DefaultPlaceID
	discountService := discount.NewDiscountService(store, popRepo, eventRepo, discountCfg)
	demandService := demand.NewDemandService(historyRepo)

	// Init handler
	discountHandler := rest.NewDiscountHandler(discountService, store, cfg.Discount.DefaultPlaceID)
	demandHandler := rest.NewDemandHandler(demandService, cfg.Discount.DefaultPlaceID)
	healthHandler := rest.NewHealthHandler(store)
	modelAdminHandler := rest.NewModelAdminHandler(store)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	adminOnly := middleware.AdminAuth(cfg.Auth.AdminAPIKeyHash)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetDiscountRoutes(api, discountHandler)
	router.SetDemandRoutes(api, demandHandler)
	router.SetHealthRoutes(api, healthHandler)
	router.SetModelAdminRoutes(api, modelAdminHandler, adminOnly)
	router.SetMetricsRoute(e)

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
