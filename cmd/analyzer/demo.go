package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palemoky/smart-text-analyzer/internal/render"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// demoText is the sample analyzed by the demo command
const demoText = "The quick brown fox jumps over the lazy dog the fox"

// demoErrorInputs show how invalid input is rejected
var demoErrorInputs = []any{"", "   ", "!!! ... ???", nil, 42}

func newDemoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Analyze a sample sentence and show how invalid input is rejected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			result, err := analyzer.Analyze(demoText)
			if err != nil {
				return err
			}

			if opts.outputFormat() == render.FormatJSON {
				return render.Result(out, render.FormatJSON, result, 0)
			}

			return writeDemo(out, result)
		},
	}
}

func writeDemo(w io.Writer, result analyzer.Result) error {
	var b strings.Builder

	b.WriteString("Text Analyzer Results:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Input: %s\n", demoText)
	fmt.Fprintf(&b, "\nWord Count: %d\n", result.WordCount)
	fmt.Fprintf(&b, "Average Word Length: %.2f\n", result.AverageWordLength)
	fmt.Fprintf(&b, "Longest Words: %s\n", strings.Join(result.LongestWords, ", "))
	b.WriteString("\nWord Frequency:\n")
	for _, wc := range result.SortedFrequency() {
		fmt.Fprintf(&b, "  %s: %d\n", wc.Word, wc.Count)
	}

	b.WriteString("\nRejected Input:\n")
	for _, input := range demoErrorInputs {
		_, err := analyzer.AnalyzeValue(input)
		fmt.Fprintf(&b, "  %-14s -> %v\n", fmt.Sprintf("%#v", input), err)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
