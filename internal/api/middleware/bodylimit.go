package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/palemoky/smart-text-analyzer/internal/errors"
)

// BodyLimit caps request bodies at limit bytes. Reads past the cap fail
// with *http.MaxBytesError, which handlers report as TEXT_TOO_LARGE.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			abortWithError(c, apierrors.TooLarge(limit))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
