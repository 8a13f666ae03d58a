package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/smart-text-analyzer/internal/api/middleware"
	"github.com/palemoky/smart-text-analyzer/internal/api/rest/handler"
	"github.com/palemoky/smart-text-analyzer/internal/config"
	"github.com/palemoky/smart-text-analyzer/internal/database"
	apierrors "github.com/palemoky/smart-text-analyzer/internal/errors"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/internal/search"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, db *database.DB, store database.ReportStore) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	log := logger.Default().Named("http")

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(rateLimiter.Middleware())
	}

	// History off means analyses are never written, but stored reports stay readable
	var history database.ReportStore
	if cfg.History.Enabled {
		history = store
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthHandler(db))
		v1.GET("/stats", handler.StatsHandler(store))

		analyzeHandler := handler.NewAnalyzeHandler(history, cfg.Analyzer.TopWords)
		v1.POST("/analyze", middleware.BodyLimit(cfg.Analyzer.MaxTextBytes), analyzeHandler.Analyze)

		reportHandler := handler.NewReportHandler(store, search.NewEngine(db))
		v1.GET("/reports", reportHandler.ListReports)
		v1.GET("/reports/search", reportHandler.SearchReports)
		v1.GET("/reports/:id", reportHandler.GetReport)
		v1.DELETE("/reports/:id", reportHandler.DeleteReport)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(apierrors.ErrNotFound.HTTPStatus, gin.H{"error": apierrors.ErrNotFound})
	})

	return router
}
