package analyzer

import (
	"strings"
	"unicode"
)

// Punctuation is the fixed set trimmed from both ends of every token.
// Characters inside a token are never touched, so "don't" and "e.g" survive.
const Punctuation = `.,!?;:"()[]{}`

// CleanToken trims Punctuation from the token boundaries and lowercases the rest.
// It returns an empty string when nothing but punctuation was left.
func CleanToken(raw string) string {
	return strings.ToLower(strings.Trim(raw, Punctuation))
}

// IsSpace reports whether r separates words. Besides Unicode white space it
// treats the ASCII file, group, record and unit separators (U+001C to U+001F)
// as white space.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// IsBlank reports whether text holds nothing but IsSpace characters.
func IsBlank(text string) bool {
	return strings.TrimFunc(text, IsSpace) == ""
}

// Tokenize splits text on runs of IsSpace characters and cleans every piece.
// Tokens that are empty after cleaning are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, IsSpace)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if token := CleanToken(field); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
