package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	apierrors "github.com/palemoky/smart-text-analyzer/internal/errors"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/pkg/analyzer"
)

// reportSource labels reports created through the API
const reportSource = "api"

// AnalyzeHandler handles text analysis requests
type AnalyzeHandler struct {
	store    database.ReportStore
	topWords int
}

// NewAnalyzeHandler creates a new analyze handler. A nil store disables history.
func NewAnalyzeHandler(store database.ReportStore, topWords int) *AnalyzeHandler {
	return &AnalyzeHandler{store: store, topWords: topWords}
}

// analyzeRequest keeps text raw so its JSON type can be checked by the analyzer
type analyzeRequest struct {
	Text json.RawMessage `json:"text"`
	Save *bool           `json:"save"`
	Top  *int            `json:"top"`
}

type analyzeResponse struct {
	analyzer.Result
	TopWords []analyzer.WordCount `json:"top_words"`
	ReportID *int64               `json:"report_id,omitempty"`
}

// Analyze analyzes the "text" field of the request body
// Body: {"text": "...", "save": true, "top": 10}
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, apierrors.TooLarge(maxErr.Limit))
			return
		}
		respondError(c, apierrors.InvalidRequest("Request body must be a JSON object"))
		return
	}

	// A missing field and an explicit null both arrive as nil
	var value any
	if len(req.Text) > 0 {
		if err := json.Unmarshal(req.Text, &value); err != nil {
			respondError(c, apierrors.InvalidRequest("Field 'text' is not valid JSON"))
			return
		}
	}

	result, err := analyzer.AnalyzeValue(value)
	if err != nil {
		respondError(c, apierrors.FromAnalysis(err))
		return
	}

	top := h.topWords
	if req.Top != nil {
		top = *req.Top
	}

	resp := analyzeResponse{
		Result:   result,
		TopWords: result.TopWords(top),
	}

	if h.store != nil && (req.Save == nil || *req.Save) {
		report, err := database.NewReport(reportSource, value.(string), result)
		if err != nil {
			logger.Error("Failed to build report", zap.Error(err))
			respondError(c, apierrors.Internal("Failed to save report"))
			return
		}

		stored, created, err := h.store.SaveReport(report)
		if err != nil {
			logger.Error("Failed to save report", zap.Error(err))
			respondError(c, apierrors.Internal("Failed to save report"))
			return
		}
		resp.ReportID = &stored.ID

		logger.Debug("Saved report", zap.Int64("report_id", stored.ID), zap.Bool("created", created))
	}

	logger.Debug("Analyzed text", logger.ResultFields(reportSource, result)...)

	c.JSON(http.StatusOK, resp)
}
