package database

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func newTestReport(t *testing.T, source, text string) *Report {
	t.Helper()

	result, err := analyzer.Analyze(text)
	require.NoError(t, err)

	report, err := NewReport(source, text, result)
	require.NoError(t, err)
	return report
}

func TestMigrateRecordsSchemaVersion(t *testing.T) {
	db := setupTestDB(t)

	version, err := db.GetSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	// Migrating twice is harmless
	require.NoError(t, db.Migrate())
	version, err = db.GetSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	assert.NoError(t, db.Ping())
}

func TestNewReportRoundTrip(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog the fox"
	result, err := analyzer.Analyze(text)
	require.NoError(t, err)

	report, err := NewReport("cli", text, result)
	require.NoError(t, err)

	assert.Equal(t, "cli", report.Source)
	assert.Equal(t, HashText(text), report.TextHash)
	assert.Len(t, report.TextHash, 64)
	assert.Equal(t, 11, report.WordCount)
	assert.Equal(t, 8, report.DistinctWords)
	assert.JSONEq(t, `["quick","brown","jumps"]`, string(report.LongestWords))

	decoded, err := report.Result()
	require.NoError(t, err)
	assert.Equal(t, result, decoded)
}

func TestReportResultRejectsCorruptJSON(t *testing.T) {
	report := &Report{LongestWords: []byte(`[`), WordFrequency: []byte(`{}`)}
	_, err := report.Result()
	assert.Error(t, err)
}

func TestSaveReport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	first, created, err := repo.SaveReport(newTestReport(t, "api", "cat dog bat"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	t.Run("same text is deduplicated", func(t *testing.T) {
		again, created, err := repo.SaveReport(newTestReport(t, "cli", "cat dog bat"))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, "api", again.Source, "first source wins")
	})

	t.Run("different text creates a new row", func(t *testing.T) {
		other, created, err := repo.SaveReport(newTestReport(t, "api", "Hello, world!"))
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, first.ID, other.ID)
	})

	count, err := repo.CountReports()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSaveReportConcurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	reports := make([]*Report, 8)
	for i := range reports {
		reports[i] = newTestReport(t, "api", "same text every time")
	}

	var wg sync.WaitGroup
	ids := make([]int64, len(reports))
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, _, err := repo.SaveReport(reports[i])
			if assert.NoError(t, err) {
				ids[i] = stored.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	count, err := repo.CountReports()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetReport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	stored, _, err := repo.SaveReport(newTestReport(t, "api", "Hello hello HELLO"))
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetReportByID(stored.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.WordCount)

		result, err := got.Result()
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"hello": 3}, result.WordFrequency)
	})

	t.Run("by hash", func(t *testing.T) {
		got, err := repo.GetReportByHash(HashText("Hello hello HELLO"))
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetReportByID(99999)
		assert.True(t, IsNotFound(err))
	})
}

func TestListReports(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for i := range 5 {
		_, _, err := repo.SaveReport(newTestReport(t, "api", fmt.Sprintf("text number %d", i)))
		require.NoError(t, err)
	}

	reports, total, err := repo.ListReports(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, reports, 2)
	assert.Greater(t, reports[0].ID, reports[1].ID, "newest first")

	reports, total, err = repo.ListReports(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, reports, 1)
}

func TestDeleteReport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	stored, _, err := repo.SaveReport(newTestReport(t, "api", "to be deleted"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteReport(stored.ID))
	assert.True(t, IsNotFound(repo.DeleteReport(stored.ID)))

	_, err = repo.GetReportByID(stored.ID)
	assert.True(t, IsNotFound(err))
}

func TestGetStatistics(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty database", func(t *testing.T) {
		stats, err := repo.GetStatistics()
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalReports)
		assert.Equal(t, 0, stats.TotalWords)
		assert.Equal(t, 0.0, stats.AverageWordLength)
		assert.Empty(t, stats.LongestWord)
		assert.Empty(t, stats.ReportsBySource)
	})

	// 3 words of 3 letters and 2 words of 5 letters
	_, _, err := repo.SaveReport(newTestReport(t, "api", "cat dog bat"))
	require.NoError(t, err)
	_, _, err = repo.SaveReport(newTestReport(t, "api", "hello world"))
	require.NoError(t, err)
	_, _, err = repo.SaveReport(newTestReport(t, "notes.txt", "hi"))
	require.NoError(t, err)

	stats, err := repo.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalReports)
	assert.Equal(t, 6, stats.TotalWords)
	// (3*3 + 2*5 + 1*2) / 6 = 21/6 = 3.5
	assert.Equal(t, 3.5, stats.AverageWordLength)
	assert.Equal(t, "hello", stats.LongestWord)

	require.Len(t, stats.ReportsBySource, 2)
	assert.Equal(t, SourceStats{Source: "api", ReportCount: 2, WordCount: 5}, stats.ReportsBySource[0])
	assert.Equal(t, SourceStats{Source: "notes.txt", ReportCount: 1, WordCount: 1}, stats.ReportsBySource[1])
}

func TestBatchInsertReports(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, repo.BatchInsertReports(nil, 10))
	})

	reports := make([]*Report, 0, 25)
	for i := range 25 {
		reports = append(reports, newTestReport(t, "batch", fmt.Sprintf("document %d body", i)))
	}
	// A duplicate of the first text is skipped
	reports = append(reports, newTestReport(t, "batch", "document 0 body"))

	require.NoError(t, repo.BatchInsertReports(reports, 10))

	count, err := repo.CountReports()
	require.NoError(t, err)
	assert.Equal(t, 25, count)
}

func TestBatchInsertReportsWithTransaction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	build := func() []*Report {
		reports := make([]*Report, 0, 30)
		for i := range 30 {
			reports = append(reports, newTestReport(t, "batch", fmt.Sprintf("transaction text %d", i)))
		}
		return reports
	}

	require.NoError(t, repo.BatchInsertReportsWithTransaction(build(), 8, 3, nil))

	count, err := repo.CountReports()
	require.NoError(t, err)
	assert.Equal(t, 30, count)

	// Re-running is idempotent
	require.NoError(t, repo.BatchInsertReportsWithTransaction(build(), 0, 0, nil))
	count, err = repo.CountReports()
	require.NoError(t, err)
	assert.Equal(t, 30, count)
}
