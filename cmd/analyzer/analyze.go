package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/config"
	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/internal/loader"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/internal/render"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// stdinName labels text read from standard input
const stdinName = "stdin"

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		file     string
		top      int
		dbPath   string
		maxBytes int64
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze text given as arguments, a file or standard input",
		Example: `  analyzer analyze "The quick brown fox"
  analyzer analyze --file notes.txt --format json
  echo "Hello, world!" | analyzer analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && len(args) > 0 {
				return fmt.Errorf("pass text arguments or --file, not both")
			}

			l := loader.NewTextLoader(loader.Options{MaxBytes: maxBytes})

			var doc loader.Document
			switch {
			case len(args) > 0:
				doc = loader.Document{Name: "cli", Text: strings.Join(args, " ")}
			case file != "":
				var err error
				doc, err = loadFile(l, file)
				if err != nil {
					return err
				}
			default:
				var err error
				doc, err = l.LoadReader(stdinName, cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			format := opts.outputFormat()
			result, err := analyzer.Analyze(doc.Text)
			if err != nil {
				if werr := render.Error(cmd.OutOrStdout(), format, err); werr != nil {
					return werr
				}
				return errReported
			}
			logger.Debug("Analyzed text", logger.ResultFields(doc.Name, result)...)

			if dbPath != "" {
				if err := saveReport(dbPath, doc, result); err != nil {
					return err
				}
			}

			return render.Result(cmd.OutOrStdout(), format, result, top)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the text from a file")
	cmd.Flags().IntVarP(&top, "top", "n", config.DefaultTopWords, "Number of words in the frequency table (0 = all)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Also store the report in this SQLite database")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "Reject input larger than this many bytes (0 = no limit)")

	return cmd
}

// loadFile reads the single file at path. Directories belong to the batch command.
func loadFile(l *loader.TextLoader, path string) (loader.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return loader.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return loader.Document{}, fmt.Errorf("%s is a directory, use the batch command to analyze directories", path)
	}

	docs, err := l.Load(path)
	if err != nil {
		return loader.Document{}, err
	}
	if len(docs) != 1 {
		return loader.Document{}, fmt.Errorf("expected one document from %s, got %d", path, len(docs))
	}
	return docs[0], nil
}

// saveReport stores one analysis in the history database at path
func saveReport(path string, doc loader.Document, result analyzer.Result) error {
	db, err := openHistory(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	report, err := database.NewReport(doc.Name, doc.Text, result)
	if err != nil {
		return err
	}

	stored, created, err := database.NewRepository(db).SaveReport(report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("Saved report",
		zap.String("database", path),
		zap.Int64("report_id", stored.ID),
		zap.Bool("created", created),
	)
	return nil
}

// openHistory opens and migrates the history database
func openHistory(path string) (*database.DB, error) {
	db, err := database.Open(path, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
