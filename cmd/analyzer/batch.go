package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/internal/loader"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/internal/processor"
	"github.com/palemoky/smart-text-analyzer/internal/render"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		workers    int
		dbPath     string
		extensions []string
		excludes   []string
		batchSize  int
		txSize     int
		maxBytes   int64
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <paths...>",
		Short: "Analyze many files and directories concurrently",
		Long: "Analyze every file named on the command line and the matching files of every directory " +
			"(non-recursive). Documents that cannot be analyzed are reported without stopping the batch.",
		Example: `  analyzer batch ./notes --ext .txt,.md --workers 8
  analyzer batch a.txt b.txt --db history.db --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loader.NewTextLoader(loader.Options{
				Extensions: extensions,
				Excludes:   excludes,
				MaxBytes:   maxBytes,
			})

			docs, err := l.Load(args...)
			if err != nil {
				return err
			}
			logger.Info("Loaded documents", zap.Int("count", len(docs)))

			var store database.ReportStore
			if dbPath != "" {
				db, err := openHistory(dbPath)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()
				store = database.NewRepository(db)
			}

			p := processor.NewProcessor(store, workers)
			p.SetBatchSize(batchSize)
			p.SetTransactionSize(txSize)
			p.SetOutput(progressOutput(cmd.ErrOrStderr()))

			outcomes, summary, err := p.Process(docs)
			if err != nil {
				return err
			}

			if err := render.Batch(cmd.OutOrStdout(), opts.outputFormat(), outcomes, summary); err != nil {
				return err
			}

			if strict && summary.Failed > 0 {
				return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Store every report in this SQLite database")
	cmd.Flags().StringSliceVar(&extensions, "ext", loader.DefaultExtensions, "File extensions picked up from directories")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "File name patterns skipped in directories")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Reports per insert statement (0 = automatic)")
	cmd.Flags().IntVar(&txSize, "tx-size", 0, "Store reports after analysis in transactions of this size (0 = stream inserts)")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "Skip files larger than this many bytes (0 = no limit)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any document fails")

	return cmd
}

// progressOutput draws progress bars only on an interactive stderr
func progressOutput(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	info, err := f.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return nil
	}
	return f
}
