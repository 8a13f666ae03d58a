package database

import (
	"errors"

	"github.com/vbauerster/mpb/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportStore defines the report operations used by the processor and the API
type ReportStore interface {
	SaveReport(report *Report) (*Report, bool, error)
	BatchInsertReports(reports []*Report, batchSize int) error
	BatchInsertReportsWithTransaction(reports []*Report, transactionSize, batchSize int, progress *mpb.Progress) error
	GetReportByID(id int64) (*Report, error)
	ListReports(limit, offset int) ([]Report, int, error)
	DeleteReport(id int64) error
	CountReports() (int, error)
	GetStatistics() (*Statistics, error)
}

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveReport stores a report unless one for the same text already exists.
// It returns the stored row and whether it was newly created.
// Uses ON CONFLICT so concurrent saves of the same text are safe.
func (r *Repository) SaveReport(report *Report) (*Report, bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "text_hash"}},
		DoNothing: true,
	}).Create(report)
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected > 0 {
		return report, true, nil
	}

	// Skipped by the conflict clause, load the existing row
	var existing Report
	if err := r.db.Where("text_hash = ?", report.TextHash).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// GetReportByID retrieves a report by ID
func (r *Repository) GetReportByID(id int64) (*Report, error) {
	var report Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReportByHash retrieves the report stored for a text hash
func (r *Repository) GetReportByHash(hash string) (*Report, error) {
	var report Report
	if err := r.db.Where("text_hash = ?", hash).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns a page of reports, newest first, and the total count
func (r *Repository) ListReports(limit, offset int) ([]Report, int, error) {
	var totalCount int64
	if err := r.db.Model(&Report{}).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var reports []Report
	err := r.db.Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error

	return reports, int(totalCount), err
}

// DeleteReport removes a report, returning gorm.ErrRecordNotFound if it does not exist
func (r *Repository) DeleteReport(id int64) error {
	res := r.db.Delete(&Report{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err means the requested row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
