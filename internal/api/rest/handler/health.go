package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	apierrors "github.com/palemoky/smart-text-analyzer/internal/errors"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
)

// HealthHandler handles health check requests
func HealthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	}
}

// StatsHandler returns overall statistics of the stored reports
func StatsHandler(store database.ReportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.GetStatistics()
		if err != nil {
			logger.Error("Failed to get statistics", zap.Error(err))
			respondError(c, apierrors.Internal("Failed to get statistics"))
			return
		}

		respondOK(c, stats)
	}
}
