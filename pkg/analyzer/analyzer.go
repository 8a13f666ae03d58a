// Package analyzer computes descriptive statistics over a block of text:
// word count, average word length, longest word(s) and word frequency.
//
// Analysis is pure. Nothing is shared between calls, so the functions are
// safe to use from any number of goroutines.
package analyzer

import (
	"sort"
	"strconv"
	"unicode/utf8"
)

// Result holds the statistics of one analyzed text.
type Result struct {
	WordCount         int            `json:"word_count"`
	AverageWordLength float64        `json:"average_word_length"`
	LongestWords      []string       `json:"longest_words"`
	WordFrequency     map[string]int `json:"word_frequency"`
}

// WordCount pairs a word with its number of occurrences.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Analyze tokenizes text and aggregates its statistics.
//
// It returns ErrEmptyInput for blank text and ErrNoValidWords when every
// token is pure punctuation. On error the returned Result is the zero value.
func Analyze(text string) (Result, error) {
	if IsBlank(text) {
		return Result{}, ErrEmptyInput
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Result{}, ErrNoValidWords
	}

	var (
		totalLength int
		maxLength   int
		frequency   = make(map[string]int)
	)
	for _, token := range tokens {
		n := utf8.RuneCountInString(token)
		totalLength += n
		if n > maxLength {
			maxLength = n
		}
		frequency[token]++
	}

	// Tokens are walked in order, so the first occurrence decides the position.
	longest := make([]string, 0, 1)
	seen := make(map[string]struct{})
	for _, token := range tokens {
		if utf8.RuneCountInString(token) != maxLength {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		longest = append(longest, token)
	}

	return Result{
		WordCount:         len(tokens),
		AverageWordLength: round2(float64(totalLength) / float64(len(tokens))),
		LongestWords:      longest,
		WordFrequency:     frequency,
	}, nil
}

// AnalyzeValue analyzes a dynamically typed value such as a decoded JSON field.
// Anything that is not a string, nil included, fails with ErrInvalidType.
func AnalyzeValue(v any) (Result, error) {
	text, ok := v.(string)
	if !ok {
		return Result{}, ErrInvalidType
	}
	return Analyze(text)
}

// TotalCharacters returns the summed rune length of every token.
func (r Result) TotalCharacters() int {
	total := 0
	for word, count := range r.WordFrequency {
		total += utf8.RuneCountInString(word) * count
	}
	return total
}

// TopWords returns the n most frequent words, ties broken alphabetically.
// A non-positive n returns every word.
func (r Result) TopWords(n int) []WordCount {
	words := r.entries()
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if n > 0 && n < len(words) {
		words = words[:n]
	}
	return words
}

// SortedFrequency returns every word with its count in alphabetical order.
func (r Result) SortedFrequency() []WordCount {
	words := r.entries()
	sort.Slice(words, func(i, j int) bool {
		return words[i].Word < words[j].Word
	})
	return words
}

func (r Result) entries() []WordCount {
	words := make([]WordCount, 0, len(r.WordFrequency))
	for word, count := range r.WordFrequency {
		words = append(words, WordCount{Word: word, Count: count})
	}
	return words
}

// round2 rounds to two decimals from the exact binary value, exact ties to even.
func round2(x float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}
