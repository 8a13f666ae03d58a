package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the database offset
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePagination reads ?page= and ?page_size=, falling back to page 1 of 20.
// Sizes above 100 are clamped.
func ParsePagination(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: min(pageSize, maxPageSize),
	}
}

// NewPaginationResponse wraps a page of data with its position in the full set
func NewPaginationResponse(data any, params PaginationParams, total int) gin.H {
	totalPages := (total + params.PageSize - 1) / params.PageSize

	return gin.H{
		"data": data,
		"pagination": gin.H{
			"page":        params.Page,
			"page_size":   params.PageSize,
			"total":       total,
			"total_pages": totalPages,
			"has_more":    params.Page < totalPages,
		},
	}
}
