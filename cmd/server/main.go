package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/worklens/worklens/internal/handlers"
	"github.com/worklens/worklens/internal/middleware"
	"github.com/worklens/worklens/internal/repositories"
	"github.com/worklens/worklens/internal/services"
	"github.com/worklens/worklens/pkg/config"
	"github.com/worklens/worklens/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig
	logger.Init()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	if len(cfg.Calculate.DimensionWeights) > 0 {
		logger.Warn("DIMENSION_WEIGHTS is configured but currently unused; performance stays an unweighted mean")
	}

	// Pipeline services
	ingestionService := services.NewIngestionService(cfg.Worklog)
	extractionService := services.NewExtractionService(
		cfg.Calculate.IssueLeaderShare,
		cfg.Calculate.ProjectLeaderShare,
		cfg.Calculate.MeetingWords,
		cfg.Calculate.LearningWords,
		cfg.Calculate.ManagementWords,
	)
	enrichmentService := services.NewEnrichmentService()
	aggregationService := services.NewAggregationService(cfg.Calculate.ProjectLeaderShare, cfg.Calculate.MinYearlyHours)
	metricsService := services.NewMetricsService()
	performanceService := services.NewPerformanceService(cfg.Calculate.ClipLimit)
	exportService := services.NewExportService()

	runRepo := repositories.NewReportRunRepository()
	reportService := services.NewReportService(
		ingestionService, extractionService, enrichmentService,
		aggregationService, metricsService, performanceService, runRepo,
	)

	// Load the worklog exports at startup; the server still comes up
	// without data so /api/worklogs/reload can retry later
	if err := reportService.Reload(cfg.Worklog.Dir); err != nil {
		logger.WithError(err).Warn("startup ingestion failed")
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	setupRoutes(router, reportService, exportService, runRepo)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	logger.Info("Server stopped")
}

func setupRoutes(router *gin.Engine, reportService *services.ReportService, exportService *services.ExportService, runRepo *repositories.ReportRunRepository) {
	datasetHandler := handlers.NewDatasetHandler(reportService)
	reportHandler := handlers.NewReportHandler(reportService, exportService, runRepo)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/info", datasetHandler.Info)
		api.GET("/issues", datasetHandler.Issues)
		api.GET("/projects", datasetHandler.Projects)
		api.GET("/worklogs", datasetHandler.Worklogs)
		api.POST("/worklogs/reload", datasetHandler.Reload)

		api.POST("/reports", reportHandler.Create)
		api.GET("/reports", reportHandler.List)
		api.GET("/reports/:id", reportHandler.Get)
		api.GET("/reports/:id/users", reportHandler.Users)
		api.GET("/reports/:id/metrics", reportHandler.Metrics)
		api.GET("/reports/:id/performance", reportHandler.Performance)
		api.GET("/reports/:id/export", reportHandler.Export)
	}
}
