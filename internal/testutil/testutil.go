// Package testutil provides shared utilities for testing.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t *testing.T) (*database.DB, *database.Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	// Every pooled connection to :memory: would get its own empty database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, database.NewRepository(db)
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// MustReport analyzes text and builds an unsaved report from it.
func MustReport(t *testing.T, source, text string) *database.Report {
	t.Helper()

	result, err := analyzer.Analyze(text)
	require.NoError(t, err, "Failed to analyze %q", text)

	report, err := database.NewReport(source, text, result)
	require.NoError(t, err)

	return report
}

// SeedReports stores one report per text and returns them in order.
func SeedReports(t *testing.T, repo database.ReportStore, source string, texts ...string) []*database.Report {
	t.Helper()

	reports := make([]*database.Report, 0, len(texts))
	for _, text := range texts {
		stored, _, err := repo.SaveReport(MustReport(t, source, text))
		require.NoError(t, err)
		reports = append(reports, stored)
	}
	return reports
}
