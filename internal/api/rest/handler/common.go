package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/palemoky/smart-text-analyzer/internal/errors"
)

// parseID extracts and validates a positive int64 ID from a URL parameter.
// Returns the ID and true if successful, or sends an error response and returns false.
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		respondError(c, apierrors.InvalidID(param))
		return 0, false
	}
	return id, true
}

// respondError sends the standard {"error": {...}} body with the error's status.
func respondError(c *gin.Context, err *apierrors.APIError) {
	c.AbortWithStatusJSON(err.HTTPStatus, gin.H{"error": err})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
