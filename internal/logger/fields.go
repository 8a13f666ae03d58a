package logger

import (
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// ResultFields describes an analysis result as log fields.
func ResultFields(source string, r analyzer.Result) []zap.Field {
	return []zap.Field{
		zap.String("source", source),
		zap.Int("word_count", r.WordCount),
		zap.Int("distinct_words", len(r.WordFrequency)),
		zap.Float64("average_word_length", r.AverageWordLength),
		zap.Strings("longest_words", r.LongestWords),
	}
}
