package processor

import (
	"github.com/palemoky/smart-text-analyzer/internal/loader"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// work is one document paired with its position in the input
type work struct {
	loader.Document
	index int
}

// Outcome is the analysis of one document. Exactly one of Result and Err is meaningful.
type Outcome struct {
	Name   string
	Result analyzer.Result
	Err    error
}

// Summary describes a finished batch
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// Stored is the number of reports handed to the store, duplicates included
	Stored       int
	SampleErrors []error
}
