package search

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// ErrEmptyQuery is returned when the query word cleans down to nothing
var ErrEmptyQuery = errors.New("search word is empty after cleaning")

// Engine handles all search operations
type Engine struct {
	db *database.DB
}

// NewEngine creates a new search engine
func NewEngine(db *database.DB) *Engine {
	return &Engine{db: db}
}

// SearchType defines the type of search
type SearchType string

const (
	// SearchTypeWord matches reports where the word occurs at all
	SearchTypeWord SearchType = "word"
	// SearchTypeLongest matches reports where the word is one of the longest words
	SearchTypeLongest SearchType = "longest"
)

// ParseSearchType parses a string to SearchType, defaulting to SearchTypeWord
func ParseSearchType(s string) SearchType {
	if SearchType(s) == SearchTypeLongest {
		return SearchTypeLongest
	}
	return SearchTypeWord
}

// SearchParams contains search parameters
type SearchParams struct {
	Word         string
	SearchType   SearchType
	MinWordCount int
	Page         int
	PageSize     int
}

// Hit is a matching report with the number of times the word occurs in it
type Hit struct {
	database.Report
	Occurrences int `gorm:"column:occurrences" json:"occurrences"`
}

// SearchResult contains search results
type SearchResult struct {
	Word       string `json:"word"`
	Hits       []Hit  `json:"hits"`
	TotalCount int    `json:"total_count"`
	HasMore    bool   `json:"has_more"`
}

// Search finds stored reports containing the word, most occurrences first.
// The word is cleaned the same way analyzed text is, so "Fox!" finds "fox".
func (e *Engine) Search(params SearchParams) (*SearchResult, error) {
	word := analyzer.CleanToken(strings.TrimFunc(params.Word, analyzer.IsSpace))
	if word == "" {
		return nil, ErrEmptyQuery
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
	offset := (params.Page - 1) * params.PageSize

	query := e.filtered(word, params)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, err
	}

	path := keyPath(word)
	hits := []Hit{}
	err := e.filtered(word, params).
		Select("reports.*, JSON_EXTRACT(reports.word_frequency, ?) AS occurrences", path).
		Order("occurrences DESC, reports.id DESC").
		Limit(params.PageSize).Offset(offset).
		Scan(&hits).Error
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Word:       word,
		Hits:       hits,
		TotalCount: int(totalCount),
		HasMore:    offset+len(hits) < int(totalCount),
	}, nil
}

// filtered builds the WHERE part shared by the count and the page query
func (e *Engine) filtered(word string, params SearchParams) *gorm.DB {
	db := e.db.Model(&database.Report{})

	switch params.SearchType {
	case SearchTypeLongest:
		db = db.Where("EXISTS (SELECT 1 FROM json_each(reports.longest_words) WHERE json_each.value = ?)", word)
	default:
		db = db.Where(hasWord(word))
	}

	if params.MinWordCount > 0 {
		db = db.Where("reports.word_count >= ?", params.MinWordCount)
	}

	return db
}

// hasWord matches reports whose frequency map has word as a key.
// Words with JSON path metacharacters need a quoted path label.
func hasWord(word string) clause.Expression {
	if !needsQuoting(word) {
		return datatypes.JSONQuery("word_frequency").HasKey(word)
	}
	return clause.Expr{
		SQL:  "JSON_EXTRACT(reports.word_frequency, ?) IS NOT NULL",
		Vars: []any{keyPath(word)},
	}
}

// keyPath returns a SQLite JSON path selecting word in an object
func keyPath(word string) string {
	return "$." + strconv.Quote(word)
}

func needsQuoting(word string) bool {
	return strings.ContainsAny(word, `.[]"$\ `) || !isPrintableASCII(word)
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
