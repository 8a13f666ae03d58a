package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/internal/testutil"
)

// setupTestEngine creates a test search engine with sample reports
func setupTestEngine(t *testing.T) (*Engine, []*database.Report) {
	t.Helper()

	db, repo := testutil.SetupTestDB(t)
	reports := testutil.SeedReports(t, repo, "test",
		"The fox and the hound. The fox ran.",
		"A quick fox",
		"Dogs sleep all day",
		"Don't stop, e.g. now",
		"café latte café",
	)
	return NewEngine(db), reports
}

func TestSearch(t *testing.T) {
	engine, reports := setupTestEngine(t)

	tests := []struct {
		name        string
		params      SearchParams
		wantWord    string
		wantIDs     []int64
		wantOccurs  []int
		wantHasMore bool
	}{
		{
			name:       "word ranked by occurrences",
			params:     SearchParams{Word: "fox"},
			wantWord:   "fox",
			wantIDs:    []int64{reports[0].ID, reports[1].ID},
			wantOccurs: []int{2, 1},
		},
		{
			name:       "query is cleaned like analyzed text",
			params:     SearchParams{Word: "  Fox! "},
			wantWord:   "fox",
			wantIDs:    []int64{reports[0].ID, reports[1].ID},
			wantOccurs: []int{2, 1},
		},
		{
			name:       "minimum word count",
			params:     SearchParams{Word: "fox", MinWordCount: 5},
			wantWord:   "fox",
			wantIDs:    []int64{reports[0].ID},
			wantOccurs: []int{2},
		},
		{
			name:       "apostrophe word",
			params:     SearchParams{Word: "Don't"},
			wantWord:   "don't",
			wantIDs:    []int64{reports[3].ID},
			wantOccurs: []int{1},
		},
		{
			name:       "word containing a dot",
			params:     SearchParams{Word: "e.g."},
			wantWord:   "e.g",
			wantIDs:    []int64{reports[3].ID},
			wantOccurs: []int{1},
		},
		{
			name:       "non-ascii word",
			params:     SearchParams{Word: "CAFÉ"},
			wantWord:   "café",
			wantIDs:    []int64{reports[4].ID},
			wantOccurs: []int{2},
		},
		{
			name:       "longest words only",
			params:     SearchParams{Word: "hound", SearchType: SearchTypeLongest},
			wantWord:   "hound",
			wantIDs:    []int64{reports[0].ID},
			wantOccurs: []int{1},
		},
		{
			name:     "present but not among the longest",
			params:   SearchParams{Word: "fox", SearchType: SearchTypeLongest},
			wantWord: "fox",
		},
		{
			name:     "no match",
			params:   SearchParams{Word: "zebra"},
			wantWord: "zebra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Search(tt.params)
			require.NoError(t, err)

			assert.Equal(t, tt.wantWord, result.Word)
			assert.Equal(t, len(tt.wantIDs), result.TotalCount)
			assert.Equal(t, tt.wantHasMore, result.HasMore)
			require.Len(t, result.Hits, len(tt.wantIDs))
			for i, hit := range result.Hits {
				assert.Equal(t, tt.wantIDs[i], hit.ID)
				assert.Equal(t, tt.wantOccurs[i], hit.Occurrences)
			}
		})
	}
}

func TestSearchPagination(t *testing.T) {
	engine, reports := setupTestEngine(t)

	first, err := engine.Search(SearchParams{Word: "fox", Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalCount)
	assert.True(t, first.HasMore)
	require.Len(t, first.Hits, 1)
	assert.Equal(t, reports[0].ID, first.Hits[0].ID)

	second, err := engine.Search(SearchParams{Word: "fox", Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.False(t, second.HasMore)
	require.Len(t, second.Hits, 1)
	assert.Equal(t, reports[1].ID, second.Hits[0].ID)

	beyond, err := engine.Search(SearchParams{Word: "fox", Page: 5, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, beyond.TotalCount)
	assert.Empty(t, beyond.Hits)
	assert.False(t, beyond.HasMore)
}

func TestSearchHitCarriesReport(t *testing.T) {
	engine, _ := setupTestEngine(t)

	result, err := engine.Search(SearchParams{Word: "quick"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)

	decoded, err := result.Hits[0].Result()
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.WordCount)
	assert.Equal(t, []string{"quick"}, decoded.LongestWords)
}

func TestSearchEmptyQuery(t *testing.T) {
	engine, _ := setupTestEngine(t)

	for _, word := range []string{"", "   ", "!!!", "()"} {
		_, err := engine.Search(SearchParams{Word: word})
		assert.ErrorIs(t, err, ErrEmptyQuery, "word %q", word)
	}
}

func TestParseSearchType(t *testing.T) {
	assert.Equal(t, SearchTypeLongest, ParseSearchType("longest"))
	assert.Equal(t, SearchTypeWord, ParseSearchType("word"))
	assert.Equal(t, SearchTypeWord, ParseSearchType(""))
	assert.Equal(t, SearchTypeWord, ParseSearchType("unknown"))
}

func TestNeedsQuoting(t *testing.T) {
	assert.False(t, needsQuoting("fox"))
	assert.False(t, needsQuoting("don't"))
	assert.True(t, needsQuoting("e.g"))
	assert.True(t, needsQuoting("café"))
	assert.True(t, needsQuoting("a[0]"))
}
