package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/smart-text-analyzer/internal/api/middleware"
	"github.com/palemoky/smart-text-analyzer/internal/database"
	"github.com/palemoky/smart-text-analyzer/internal/testutil"
)

// setupAnalyzeRouter serves the analyze handler backed by a fresh database
func setupAnalyzeRouter(t *testing.T, bodyLimit int64) (*gin.Engine, *database.Repository) {
	t.Helper()

	_, repo := testutil.SetupTestDB(t)
	router := testutil.SetupTestGin()
	handler := NewAnalyzeHandler(repo, 3)
	router.POST("/analyze", middleware.BodyLimit(bodyLimit), handler.Analyze)
	return router, repo
}

func postAnalyze(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	resp := decodeBody(t, w)
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok, "error object expected in %s", w.Body.String())
	return errObj["code"].(string), errObj["message"].(string)
}

func TestAnalyze(t *testing.T) {
	router, _ := setupAnalyzeRouter(t, 1<<20)

	w := postAnalyze(router, `{"text": "Hello, world! Hello!"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, float64(3), resp["word_count"])
	assert.Equal(t, float64(5), resp["average_word_length"])
	assert.Equal(t, []any{"hello", "world"}, resp["longest_words"])
	assert.Equal(t, map[string]any{"hello": float64(2), "world": float64(1)}, resp["word_frequency"])
	assert.Equal(t, []any{
		map[string]any{"word": "hello", "count": float64(2)},
		map[string]any{"word": "world", "count": float64(1)},
	}, resp["top_words"])
	assert.NotNil(t, resp["report_id"])
}

func TestAnalyzeErrors(t *testing.T) {
	router, _ := setupAnalyzeRouter(t, 1<<20)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"null text", `{"text": null}`, http.StatusBadRequest, "INVALID_TYPE", "Field 'text' must be a string"},
		{"missing text", `{}`, http.StatusBadRequest, "INVALID_TYPE", "Field 'text' must be a string"},
		{"number text", `{"text": 42}`, http.StatusBadRequest, "INVALID_TYPE", "Field 'text' must be a string"},
		{"array text", `{"text": ["a", "b"]}`, http.StatusBadRequest, "INVALID_TYPE", "Field 'text' must be a string"},
		{"empty text", `{"text": ""}`, http.StatusUnprocessableEntity, "EMPTY_INPUT", "Input text cannot be empty"},
		{"blank text", `{"text": " \n\t "}`, http.StatusUnprocessableEntity, "EMPTY_INPUT", "Input text cannot be empty"},
		{"punctuation only", `{"text": "!!! ... ???"}`, http.StatusUnprocessableEntity, "EMPTY_INPUT", "Input text contains no valid words"},
		{"malformed body", `not json`, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON object"},
		{"wrong save type", `{"text": "hi", "save": "yes"}`, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAnalyze(router, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			code, message := errorBody(t, w)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestAnalyzeTopWords(t *testing.T) {
	router, _ := setupAnalyzeRouter(t, 1<<20)

	t.Run("handler default", func(t *testing.T) {
		resp := decodeBody(t, postAnalyze(router, `{"text": "a b c d e a"}`))
		assert.Len(t, resp["top_words"], 3)
	})

	t.Run("explicit top", func(t *testing.T) {
		resp := decodeBody(t, postAnalyze(router, `{"text": "a b c d e a", "top": 1}`))
		assert.Equal(t, []any{map[string]any{"word": "a", "count": float64(2)}}, resp["top_words"])
	})

	t.Run("zero means every word", func(t *testing.T) {
		resp := decodeBody(t, postAnalyze(router, `{"text": "a b c d e a", "top": 0}`))
		assert.Len(t, resp["top_words"], 5)
	})
}

func TestAnalyzeHistory(t *testing.T) {
	router, repo := setupAnalyzeRouter(t, 1<<20)

	first := decodeBody(t, postAnalyze(router, `{"text": "cat dog bat"}`))
	again := decodeBody(t, postAnalyze(router, `{"text": "cat dog bat"}`))
	assert.Equal(t, first["report_id"], again["report_id"], "same text maps to one report")

	unsaved := decodeBody(t, postAnalyze(router, `{"text": "not kept", "save": false}`))
	assert.NotContains(t, unsaved, "report_id")

	count, err := repo.CountReports()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.GetReportByID(int64(first["report_id"].(float64)))
	require.NoError(t, err)
	assert.Equal(t, reportSource, stored.Source)
}

func TestAnalyzeWithoutStore(t *testing.T) {
	router := testutil.SetupTestGin()
	router.POST("/analyze", NewAnalyzeHandler(nil, 10).Analyze)

	w := postAnalyze(router, `{"text": "history is off", "save": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w), "report_id")
}

func TestAnalyzeBodyLimit(t *testing.T) {
	router, _ := setupAnalyzeRouter(t, 32)
	body := `{"text": "` + strings.Repeat("word ", 20) + `"}`

	t.Run("declared length", func(t *testing.T) {
		w := postAnalyze(router, body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		code, _ := errorBody(t, w)
		assert.Equal(t, "TEXT_TOO_LARGE", code)
	})

	t.Run("streamed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", io.NopCloser(strings.NewReader(body)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		code, message := errorBody(t, w)
		assert.Equal(t, "TEXT_TOO_LARGE", code)
		assert.Contains(t, message, "32 bytes")
	})
}
