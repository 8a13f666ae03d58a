package processor

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/internal/loader"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

const (
	// Dynamic batch sizing thresholds (percentage of channel capacity)
	channelPressureHigh   = 0.8 // 80% full - reduce batch size
	channelPressureMedium = 0.5 // 50% full - normal batch size
	channelPressureLow    = 0.2 // 20% full - increase batch size

	// Error reporting limits
	MaxErrorsToCollect = 100 // Maximum number of errors to collect
	SampleErrorCount   = 5   // Number of sample errors to show
)

// getOptimalConfig returns optimal configuration based on system resources
func getOptimalConfig() (workBuffer, resultBuffer, errorBuffer, defaultBatch, minBatch, maxBatch int) {
	cpuCount := runtime.NumCPU()

	switch {
	case cpuCount <= 2:
		return 50, 500, 50, 100, 25, 200
	case cpuCount <= 4:
		return 75, 1000, 75, 200, 50, 300
	case cpuCount <= 8:
		return 100, 2000, 100, 300, 100, 500
	default:
		return 200, 4000, 200, 400, 150, 800
	}
}

// Processor analyzes documents concurrently and optionally stores the reports
type Processor struct {
	store           database.ReportStore
	workers         int
	batchSize       int // Base batch size for database insertion
	minBatchSize    int // Minimum batch size (for high pressure)
	maxBatchSize    int // Maximum batch size (for low pressure)
	transactionSize int // When > 0, store everything at the end in large transactions
	output          io.Writer
}

// NewProcessor creates a new processor. A nil store disables persistence.
func NewProcessor(store database.ReportStore, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	_, _, _, defaultBatch, minBatch, maxBatch := getOptimalConfig()

	return &Processor{
		store:        store,
		workers:      workers,
		batchSize:    defaultBatch,
		minBatchSize: minBatch,
		maxBatchSize: maxBatch,
		output:       os.Stderr,
	}
}

// SetBatchSize sets the batch size for database insertion
func (p *Processor) SetBatchSize(size int) {
	if size > 0 {
		p.batchSize = size
	}
}

// SetTransactionSize switches storage to one pass of large transactions after analysis
func (p *Processor) SetTransactionSize(size int) {
	p.transactionSize = size
}

// SetOutput sets where progress bars are drawn. nil hides them.
func (p *Processor) SetOutput(w io.Writer) {
	p.output = w
}

// Process analyzes every document and returns one outcome per document in input order.
// Documents that fail analysis are reported in their outcome and the summary;
// only a storage failure is returned as an error.
func (p *Processor) Process(docs []loader.Document) ([]Outcome, *Summary, error) {
	total := len(docs)
	outcomes := make([]Outcome, total)
	summary := &Summary{Total: total}
	if total == 0 {
		return outcomes, summary, nil
	}

	logger.Info("Analyzing documents",
		zap.Int("documents", total),
		zap.Int("workers", p.workers),
		zap.Bool("store", p.store != nil),
	)

	progress := mpb.New(
		mpb.WithOutput(p.output),
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Analyzing: ", decor.WC{W: 11, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f docs/s", decor.WC{W: 12}),
		),
	)

	workBuffer, resultBuffer, errorBuffer, _, _, _ := getOptimalConfig()

	workCh := make(chan work, workBuffer)
	resultCh := make(chan *database.Report, resultBuffer)
	errorCh := make(chan error, errorBuffer)
	var wg sync.WaitGroup

	var failed atomic.Int64
	var stored atomic.Int64

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range workCh {
				// Each index is written by exactly one worker
				outcome, report, err := p.processDocument(item.Document)
				outcomes[item.index] = outcome
				if err != nil {
					failed.Add(1)
					select {
					case errorCh <- fmt.Errorf("worker %d: %s: %w", workerID, item.Name, err):
					default:
					}
				} else if report != nil {
					stored.Add(1)
					resultCh <- report
				}
				bar.Increment()
			}
		}(i)
	}

	insertDone := make(chan error, 1)
	go func() {
		insertDone <- p.collectReports(resultCh, progress)
	}()

	go func() {
		for i, doc := range docs {
			workCh <- work{Document: doc, index: i}
		}
		close(workCh)
	}()

	wg.Wait()
	close(resultCh)

	insertErr := <-insertDone
	close(errorCh)

	if insertErr != nil {
		bar.Abort(false)
	}
	progress.Wait()

	if insertErr != nil {
		return outcomes, summary, fmt.Errorf("batch insertion failed: %w", insertErr)
	}

	for err := range errorCh {
		summary.SampleErrors = append(summary.SampleErrors, err)
		if len(summary.SampleErrors) >= MaxErrorsToCollect {
			break
		}
	}

	summary.Failed = int(failed.Load())
	summary.Succeeded = total - summary.Failed
	summary.Stored = int(stored.Load())

	if summary.Failed > 0 {
		fields := []zap.Field{
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
		}
		for i := 0; i < min(len(summary.SampleErrors), SampleErrorCount); i++ {
			fields = append(fields, zap.NamedError(fmt.Sprintf("sample_%d", i+1), summary.SampleErrors[i]))
		}
		logger.Warn("Analysis finished with errors", fields...)
	} else {
		logger.Info("Analysis finished", zap.Int("documents", total), zap.Int("stored", summary.Stored))
	}

	return outcomes, summary, nil
}

// collectReports drains resultCh into the store. Without a store it only drains.
func (p *Processor) collectReports(resultCh <-chan *database.Report, progress *mpb.Progress) error {
	if p.store == nil {
		for range resultCh {
		}
		return nil
	}

	if p.transactionSize > 0 {
		var reports []*database.Report
		for report := range resultCh {
			reports = append(reports, report)
		}
		return p.store.BatchInsertReportsWithTransaction(reports, p.transactionSize, p.batchSize, progress)
	}

	return p.batchInserter(resultCh)
}

// batchInserter collects reports and inserts them in batches with dynamic sizing
// Adjusts batch size based on channel pressure to prevent blocking
func (p *Processor) batchInserter(resultCh <-chan *database.Report) error {
	batch := make([]*database.Report, 0, p.maxBatchSize)
	currentBatchSize := p.batchSize

	// Keep draining after a failure so workers never block on a full channel
	var insertErr error

	for report := range resultCh {
		if insertErr != nil {
			continue
		}
		batch = append(batch, report)

		utilization := float64(len(resultCh)) / float64(cap(resultCh))

		newBatchSize := p.calculateBatchSize(utilization, currentBatchSize)
		if newBatchSize != currentBatchSize {
			logger.Debug("Adjusting batch size",
				zap.Float64("channel_utilization", utilization),
				zap.Int("from", currentBatchSize),
				zap.Int("to", newBatchSize),
			)
		}
		currentBatchSize = newBatchSize

		if len(batch) >= currentBatchSize {
			if err := p.store.BatchInsertReports(batch, len(batch)); err != nil {
				insertErr = fmt.Errorf("failed to insert batch of %d reports: %w", len(batch), err)
				continue
			}
			batch = batch[:0]
		}
	}

	if insertErr != nil {
		return insertErr
	}

	if len(batch) > 0 {
		if err := p.store.BatchInsertReports(batch, len(batch)); err != nil {
			return fmt.Errorf("failed to insert final batch of %d reports: %w", len(batch), err)
		}
	}

	return nil
}

// calculateBatchSize determines the optimal batch size based on channel utilization
// Returns the adjusted batch size, or keeps current size for smooth transitions
func (p *Processor) calculateBatchSize(utilization float64, currentSize int) int {
	switch {
	case utilization >= channelPressureHigh:
		return p.minBatchSize
	case utilization >= channelPressureMedium:
		return p.batchSize
	case utilization <= channelPressureLow:
		return p.maxBatchSize
	default:
		return currentSize
	}
}

// processDocument analyzes one document and builds its report when a store is set
func (p *Processor) processDocument(doc loader.Document) (Outcome, *database.Report, error) {
	outcome := Outcome{Name: doc.Name}

	result, err := analyzer.Analyze(doc.Text)
	if err != nil {
		outcome.Err = err
		return outcome, nil, err
	}
	outcome.Result = result

	if p.store == nil {
		return outcome, nil, nil
	}

	report, err := database.NewReport(doc.Name, doc.Text, result)
	if err != nil {
		outcome.Err = err
		return outcome, nil, err
	}
	return outcome, report, nil
}
