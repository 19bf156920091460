package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketSense/app/echo-server/router"
	"marketSense/business/activity"
	"marketSense/business/analytics"
	"marketSense/business/interest"
	"marketSense/business/reco"
	"marketSense/internal/middleware"
	psqlRepo "marketSense/internal/repository/postgres"
	redisRepo "marketSense/internal/repository/redis"
	"marketSense/internal/rest"
	"marketSense/pkg/config"
	"marketSense/pkg/database"
	redisdb "marketSense/pkg/database/redis"
	"marketSense/pkg/logger"
	"marketSense/pkg/metrics"
	"marketSense/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting MarketSense", "version", cfg.App.Version)

	utils.Init(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init repo
	listingRepo := psqlRepo.NewListingRepository(db)
	activityRepo := psqlRepo.NewActivityRepository(db)
	interestRepo := psqlRepo.NewInterestRepository(db)
	recRepo := psqlRepo.NewRecommendationRepository(db)

	// Optional profile cache
	var profileCache interest.ProfileCache
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer func() {
			if err := redisdb.CloseRedisClient(redisClient); err != nil {
				logger.Error("Failed to close Redis client", err)
			}
		}()

		cacheTTL := time.Duration(cfg.Reco.ProfileCacheTTLMinute) * time.Minute
		profileCache = redisRepo.NewProfileCache(redisClient, cacheTTL)
		logger.Info("Redis connected successfully")
	}

	// Init service
	interestCfg := interest.DefaultConfig()
	if cfg.Reco.DecayHalfLifeDays > 0 {
		interestCfg.HalfLife = time.Duration(cfg.Reco.DecayHalfLifeDays) * 24 * time.Hour
	}
	interestService := interest.NewService(activityRepo, interestRepo, profileCache, interestCfg)

	recoCfg := reco.DefaultConfig()
	if cfg.Reco.TrendingWindowDays > 0 {
		recoCfg.TrendingWindow = time.Duration(cfg.Reco.TrendingWindowDays) * 24 * time.Hour
	}
	recoService := reco.NewService(listingRepo, activityRepo, recRepo, interestService, recoCfg)

	activityService := activity.NewService(activityRepo, listingRepo, interestService)
	analyticsService := analytics.NewService(activityRepo, recRepo, interestService, analytics.DefaultConfig())

	// Init handler
	sessionHandler := rest.NewSessionHandler()
	activityHandler := rest.NewActivityHandler(activityService)
	recoHandler := rest.NewRecoHandler(recoService)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsService, interestService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Session-Token"},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupSessionRoutes(api, sessionHandler)
	router.SetupActivityRoutes(api, activityHandler, analyticsHandler)
	router.SetupRecoRoutes(api, recoHandler)
	router.SetupAnalyticsRoutes(api, analyticsHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

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
