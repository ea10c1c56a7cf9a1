package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/infrastructure/logger"
	"github.com/erp/pos-reports/internal/interfaces/http/dto"
)

// Session headers set by the POS front end
const (
	BranchIDHeader   = "X-Branch-ID"
	BranchNameHeader = "X-Branch-Name"
	UserIDHeader     = "X-User-ID"
)

const sessionKey = "session"

// maxHeaderValueLength bounds free-text session headers
const maxHeaderValueLength = 128

// Session reads the caller's branch and user from the session headers.
// A missing branch is allowed; a malformed one is rejected with 400.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		var session report.SessionContext

		if raw := strings.TrimSpace(c.GetHeader(BranchIDHeader)); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeBadRequest,
					BranchIDHeader+" must be a positive integer",
					GetRequestID(c),
				))
				return
			}
			session.BranchID = &id
		}
		session.BranchName = truncate(strings.TrimSpace(c.GetHeader(BranchNameHeader)), maxHeaderValueLength)
		session.UserID = truncate(strings.TrimSpace(c.GetHeader(UserIDHeader)), maxHeaderValueLength)

		ctx := c.Request.Context()
		l := logger.FromContext(ctx)
		if session.BranchID != nil {
			ctx, l = logger.WithBranchID(ctx, l, *session.BranchID)
		}
		if session.UserID != "" {
			ctx, _ = logger.WithUserID(ctx, l, session.UserID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession returns the session stored by Session, or an empty one
func GetSession(c *gin.Context) report.SessionContext {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(report.SessionContext); ok {
			return s
		}
	}
	return report.SessionContext{}
}

// truncate keeps at most n bytes of s without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
