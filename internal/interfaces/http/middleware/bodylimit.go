package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/pos-reports/internal/interfaces/http/dto"
)

// DefaultMaxBodyBytes bounds JSON bodies of the workspace endpoints
const DefaultMaxBodyBytes int64 = 64 << 10

// BodyLimit rejects bodies above maxBytes and caps streaming bodies
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
