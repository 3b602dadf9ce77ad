package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Ysherlin/ec3-assessment/internal/handler"
	"github.com/Ysherlin/ec3-assessment/internal/middleware"
	"github.com/Ysherlin/ec3-assessment/internal/model"
	"github.com/Ysherlin/ec3-assessment/internal/repository"
	"github.com/Ysherlin/ec3-assessment/pkg/config"
	"github.com/Ysherlin/ec3-assessment/pkg/database"
	"github.com/Ysherlin/ec3-assessment/pkg/logger"
	"github.com/Ysherlin/ec3-assessment/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("lead-service")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting lead service...", cfg.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, &model.Lead{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Optionally seed mock data for development
	if cfg.SeedData {
		inserted, err := repository.SeedIfEmpty(db)
		if err != nil {
			log.Fatal("Failed to seed mock data", zap.Error(err))
		}
		if inserted > 0 {
			log.Info("Seeded mock leads", zap.Int("count", inserted))
		}
	}

	repo := repository.NewLeadRepository(db)
	leadHandler := handler.NewLeadHandler(repo)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.MetricsMiddleware)
	e.Use(logger.Middleware())

	// Routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))

	leads := e.Group("/leads")
	leads.POST("", leadHandler.Create)
	leads.GET("", leadHandler.List)
	leads.GET("/report", leadHandler.Report)
	leads.GET("/:id", leadHandler.Get)
	leads.PUT("/:id", leadHandler.Update)
	leads.DELETE("/:id", leadHandler.Delete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
