package handler

import "github.com/palemoky/smart-text-analyzer/internal/database"

// formatReportSummary formats a report for list responses, without the frequency map.
func formatReportSummary(r *database.Report) map[string]any {
	return map[string]any{
		"id":                  r.ID,
		"source":              r.Source,
		"word_count":          r.WordCount,
		"distinct_words":      r.DistinctWords,
		"average_word_length": r.AverageWordLength,
		"longest_words":       r.LongestWords,
		"created_at":          r.CreatedAt,
	}
}

// formatReport formats a full report for API response.
func formatReport(r *database.Report) map[string]any {
	result := formatReportSummary(r)
	result["text_hash"] = r.TextHash
	result["word_frequency"] = r.WordFrequency
	return result
}
