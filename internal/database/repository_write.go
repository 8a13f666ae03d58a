package database

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/smart-text-analyzer/internal/logger"
)

// Batch write operations for bulk analysis

// BatchInsertReports inserts multiple reports in batches for better performance
// Reports whose text was already stored are skipped (ON CONFLICT DO NOTHING)
func (r *Repository) BatchInsertReports(reports []*Report, batchSize int) error {
	if len(reports) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "text_hash"}},
		DoNothing: true,
	}).CreateInBatches(reports, batchSize).Error
}

// BatchInsertReportsWithTransaction inserts reports in large transactions
// This reduces fsync overhead by grouping multiple batches into one transaction
// transactionSize: number of reports per transaction (e.g., 10000)
// batchSize: number of reports per insert statement (e.g., 500)
// progress: optional progress container for displaying insert progress
func (r *Repository) BatchInsertReportsWithTransaction(reports []*Report, transactionSize, batchSize int, progress *mpb.Progress) error {
	if len(reports) == 0 {
		return nil
	}

	if transactionSize <= 0 {
		transactionSize = 10000
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	totalTransactions := (len(reports) + transactionSize - 1) / transactionSize

	var bar *mpb.Bar
	if progress != nil {
		bar = progress.AddBar(int64(len(reports)),
			mpb.PrependDecorators(
				decor.Name("Saving Reports: ", decor.WC{W: 16, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Name(" | "),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			),
		)
	}

	logger.Debug("Starting batch insertion",
		zap.Int("reports", len(reports)),
		zap.Int("transactions", totalTransactions),
		zap.Int("batch_size", batchSize),
	)

	for i := 0; i < len(reports); i += transactionSize {
		end := min(i+transactionSize, len(reports))
		chunk := reports[i:end]

		err := r.db.Transaction(func(tx *gorm.DB) error {
			// Batch manually so the bar moves inside the transaction
			for j := 0; j < len(chunk); j += batchSize {
				batch := chunk[j:min(j+batchSize, len(chunk))]

				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "text_hash"}},
					DoNothing: true,
				}).Create(&batch).Error
				if err != nil {
					return err
				}

				if bar != nil {
					bar.IncrBy(len(batch))
				}
			}
			return nil
		})
		if err != nil {
			if bar != nil {
				bar.Abort(false)
			}
			txNum := i/transactionSize + 1
			return fmt.Errorf("failed to insert transaction %d/%d (reports %d-%d): %w",
				txNum, totalTransactions, i, end, err)
		}
	}

	return nil
}
