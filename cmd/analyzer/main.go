package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/internal/render"
)

// options holds the flags shared by every subcommand
type options struct {
	format  string
	verbose bool
}

// errReported marks failures whose message has already been written to the output
var errReported = errors.New("failure already reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Smart Text Analyzer",
		Long:          "Count words, find the longest ones and build word frequencies for text, files and directories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(opts.verbose)
			if !opts.verbose {
				logger.SetLevel(zapcore.WarnLevel)
			}
			_, err := render.ParseFormat(opts.format)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "table", "Output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newBatchCmd(opts),
		newDemoCmd(opts),
	)

	return rootCmd
}

// outputFormat returns the validated format; PersistentPreRunE already rejected bad values
func (o *options) outputFormat() render.Format {
	format, _ := render.ParseFormat(o.format)
	return format
}
