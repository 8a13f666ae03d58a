package database

import "math"

// Statistics and counting methods

// CountReports returns the total number of stored reports
func (r *Repository) CountReports() (int, error) {
	var count int64
	err := r.db.Model(&Report{}).Count(&count).Error
	return int(count), err
}

// GetStatistics returns overall statistics
func (r *Repository) GetStatistics() (*Statistics, error) {
	stats := &Statistics{ReportsBySource: []SourceStats{}}

	var totals struct {
		Reports  int     `gorm:"column:reports"`
		Words    int     `gorm:"column:words"`
		Weighted float64 `gorm:"column:weighted"`
	}

	// Per-report averages are weighted by word count so long texts count more
	err := r.db.Model(&Report{}).
		Select("COUNT(*) AS reports, COALESCE(SUM(word_count), 0) AS words, " +
			"COALESCE(SUM(average_word_length * word_count), 0) AS weighted").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	stats.TotalReports = totals.Reports
	stats.TotalWords = totals.Words
	if totals.Words > 0 {
		stats.AverageWordLength = math.Round(totals.Weighted/float64(totals.Words)*100) / 100
	}

	// Ties on length go to the alphabetically first word
	var longest []string
	err = r.db.Raw("SELECT j.value FROM reports, json_each(reports.longest_words) AS j " +
		"ORDER BY length(j.value) DESC, j.value ASC LIMIT 1").
		Scan(&longest).Error
	if err != nil {
		return nil, err
	}
	if len(longest) > 0 {
		stats.LongestWord = longest[0]
	}

	err = r.db.Model(&Report{}).
		Select("source, COUNT(*) AS report_count, SUM(word_count) AS word_count").
		Group("source").
		Order("report_count DESC, source ASC").
		Scan(&stats.ReportsBySource).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
