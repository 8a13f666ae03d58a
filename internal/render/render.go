// Package render prints analysis results for terminals and scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/palemoky/smart-text-analyzer/internal/processor"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// Format selects the output style
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table or json)", s)
	}
}

// Result writes one analysis. top limits the frequency table; <= 0 shows every word.
func Result(w io.Writer, format Format, r analyzer.Result, top int) error {
	if format == FormatJSON {
		return writeJSON(w, r)
	}

	summary := tablewriter.NewWriter(w)
	summary.Header([]string{"Metric", "Value"})
	rows := [][]string{
		{"Word count", strconv.Itoa(r.WordCount)},
		{"Distinct words", strconv.Itoa(len(r.WordFrequency))},
		{"Average word length", formatAverage(r.AverageWordLength)},
		{"Longest words", strings.Join(r.LongestWords, ", ")},
	}
	for _, row := range rows {
		if err := summary.Append(row); err != nil {
			return err
		}
	}
	if err := summary.Render(); err != nil {
		return err
	}

	return frequencyTable(w, r, top)
}

func frequencyTable(w io.Writer, r analyzer.Result, top int) error {
	words := r.TopWords(top)
	if len(words) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Word", "Count"})
	for i, wc := range words {
		if err := table.Append([]string{strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if hidden := len(r.WordFrequency) - len(words); hidden > 0 {
		_, err := fmt.Fprintf(w, "... and %d more distinct words\n", hidden)
		return err
	}
	return nil
}

// batchEntry is the JSON shape of one processed document
type batchEntry struct {
	Name   string           `json:"name"`
	Result *analyzer.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type batchOutput struct {
	Documents []batchEntry `json:"documents"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Stored    int          `json:"stored"`
}

// Batch writes the outcomes of a batch run followed by its summary
func Batch(w io.Writer, format Format, outcomes []processor.Outcome, summary *processor.Summary) error {
	if summary == nil {
		summary = &processor.Summary{Total: len(outcomes)}
	}

	if format == FormatJSON {
		out := batchOutput{
			Documents: make([]batchEntry, 0, len(outcomes)),
			Total:     summary.Total,
			Succeeded: summary.Succeeded,
			Failed:    summary.Failed,
			Stored:    summary.Stored,
		}
		for _, o := range outcomes {
			entry := batchEntry{Name: o.Name}
			if o.Err != nil {
				entry.Error = o.Err.Error()
			} else {
				result := o.Result
				entry.Result = &result
			}
			out.Documents = append(out.Documents, entry)
		}
		return writeJSON(w, out)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Document", "Words", "Avg Length", "Longest", "Status"})
	for _, o := range outcomes {
		row := []string{o.Name, "-", "-", "-", "ok"}
		if o.Err != nil {
			row[4] = o.Err.Error()
		} else {
			row[1] = strconv.Itoa(o.Result.WordCount)
			row[2] = formatAverage(o.Result.AverageWordLength)
			row[3] = strings.Join(o.Result.LongestWords, ", ")
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d documents: %d analyzed, %d failed, %d stored\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.Stored)
	return err
}

// Error writes a failed analysis in the chosen format
func Error(w io.Writer, format Format, err error) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]string{"error": err.Error()})
	}
	_, werr := fmt.Fprintf(w, "Error: %v\n", err)
	return werr
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 2, 64)
}
