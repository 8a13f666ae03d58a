package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/smart-text-analyzer/internal/database"
	apierrors "github.com/palemoky/smart-text-analyzer/internal/errors"
	"github.com/palemoky/smart-text-analyzer/internal/logger"
	"github.com/palemoky/smart-text-analyzer/internal/search"
)

// ReportHandler handles stored report requests
type ReportHandler struct {
	store  database.ReportStore
	engine *search.Engine
}

// NewReportHandler creates a new report handler
func NewReportHandler(store database.ReportStore, engine *search.Engine) *ReportHandler {
	return &ReportHandler{store: store, engine: engine}
}

// ListReports returns a page of reports, newest first
func (h *ReportHandler) ListReports(c *gin.Context) {
	pagination := ParsePagination(c)

	reports, total, err := h.store.ListReports(pagination.PageSize, pagination.Offset())
	if err != nil {
		logger.Error("Failed to list reports", zap.Error(err))
		respondError(c, apierrors.Internal("Failed to fetch reports"))
		return
	}

	data := make([]map[string]any, len(reports))
	for i := range reports {
		data[i] = formatReportSummary(&reports[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, total))
}

// GetReport returns a specific report by ID
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	report, err := h.store.GetReportByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			respondError(c, apierrors.NotFound("Report"))
			return
		}
		logger.Error("Failed to get report", zap.Int64("id", id), zap.Error(err))
		respondError(c, apierrors.ErrInternal)
		return
	}

	respondOK(c, formatReport(report))
}

// DeleteReport removes a report by ID
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteReport(id); err != nil {
		if database.IsNotFound(err) {
			respondError(c, apierrors.NotFound("Report"))
			return
		}
		logger.Error("Failed to delete report", zap.Int64("id", id), zap.Error(err))
		respondError(c, apierrors.ErrInternal)
		return
	}

	respondOK(c, gin.H{"id": id, "deleted": true})
}

// SearchReports finds reports containing a word
// Query: ?word=fox&type=word|longest&min_words=10&page=1&page_size=20
func (h *ReportHandler) SearchReports(c *gin.Context) {
	word := c.Query("word")
	if word == "" {
		respondError(c, apierrors.InvalidRequest("Query parameter 'word' is required"))
		return
	}

	minWords := 0
	if raw := c.Query("min_words"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, apierrors.InvalidRequest("Query parameter 'min_words' must be a non-negative integer"))
			return
		}
		minWords = n
	}

	pagination := ParsePagination(c)
	result, err := h.engine.Search(search.SearchParams{
		Word:         word,
		SearchType:   search.ParseSearchType(c.Query("type")),
		MinWordCount: minWords,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	})
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			respondError(c, apierrors.InvalidRequest("Query parameter 'word' has no letters to search for"))
			return
		}
		logger.Error("Failed to search reports", zap.String("word", word), zap.Error(err))
		respondError(c, apierrors.Internal("Failed to search reports"))
		return
	}

	data := make([]map[string]any, len(result.Hits))
	for i := range result.Hits {
		item := formatReportSummary(&result.Hits[i].Report)
		item["occurrences"] = result.Hits[i].Occurrences
		data[i] = item
	}

	resp := NewPaginationResponse(data, pagination, result.TotalCount)
	resp["word"] = result.Word
	c.JSON(http.StatusOK, resp)
}
