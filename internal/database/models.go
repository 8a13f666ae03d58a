package database

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// Report is a stored analysis result
type Report struct {
	ID                int64          `gorm:"primaryKey;autoIncrement"       json:"id"`
	Source            string         `gorm:"not null;index"                 json:"source"`
	TextHash          string         `gorm:"size:64;not null;uniqueIndex"   json:"text_hash"`
	WordCount         int            `gorm:"not null;index"                 json:"word_count"`
	DistinctWords     int            `gorm:"not null"                       json:"distinct_words"`
	AverageWordLength float64        `gorm:"not null"                       json:"average_word_length"`
	LongestWords      datatypes.JSON `gorm:"type:json;not null"             json:"longest_words"`  // JSON array of words
	WordFrequency     datatypes.JSON `gorm:"type:json;not null"             json:"word_frequency"` // JSON object word -> count
	CreatedAt         time.Time      `gorm:"autoCreateTime"                 json:"created_at"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}

// Metadata stores key/value facts about the database itself
type Metadata struct {
	Key       string    `gorm:"primaryKey"     json:"key"`
	Value     string    `gorm:"not null"       json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Metadata
func (Metadata) TableName() string {
	return "metadata"
}

// HashText returns the hex SHA-256 of text, used to deduplicate reports
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NewReport builds a report for text analyzed into result
func NewReport(source, text string, result analyzer.Result) (*Report, error) {
	longest, err := json.Marshal(result.LongestWords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal longest words: %w", err)
	}

	frequency, err := json.Marshal(result.WordFrequency)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal word frequency: %w", err)
	}

	return &Report{
		Source:            source,
		TextHash:          HashText(text),
		WordCount:         result.WordCount,
		DistinctWords:     len(result.WordFrequency),
		AverageWordLength: result.AverageWordLength,
		LongestWords:      datatypes.JSON(longest),
		WordFrequency:     datatypes.JSON(frequency),
	}, nil
}

// Result decodes the stored statistics back into an analyzer.Result
func (r *Report) Result() (analyzer.Result, error) {
	result := analyzer.Result{
		WordCount:         r.WordCount,
		AverageWordLength: r.AverageWordLength,
	}

	if err := json.Unmarshal(r.LongestWords, &result.LongestWords); err != nil {
		return analyzer.Result{}, fmt.Errorf("failed to decode longest words: %w", err)
	}
	if err := json.Unmarshal(r.WordFrequency, &result.WordFrequency); err != nil {
		return analyzer.Result{}, fmt.Errorf("failed to decode word frequency: %w", err)
	}

	return result, nil
}

// SourceStats aggregates reports sharing a source
type SourceStats struct {
	Source      string `json:"source"`
	ReportCount int    `json:"report_count"`
	WordCount   int    `json:"word_count"`
}

// Statistics holds overall statistics
type Statistics struct {
	TotalReports      int           `json:"total_reports"`
	TotalWords        int           `json:"total_words"`
	AverageWordLength float64       `json:"average_word_length"`
	LongestWord       string        `json:"longest_word"`
	ReportsBySource   []SourceStats `json:"reports_by_source"`
}
