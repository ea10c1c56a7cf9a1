package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/infrastructure/telemetry"
)

// Profiling attaches Pyroscope labels to each request so CPU and allocation
// profiles can be filtered by route. Labels use the route pattern, never the
// raw path. When disabled it only calls the next handler.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		telemetry.WithProfilingLabels(c.Request.Context(), extractProfilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func extractProfilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 3)
	labels[telemetry.ProfilingLabelMethod] = c.Request.Method
	if route := c.FullPath(); route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	// only registry types, so a bogus path segment cannot grow the label set
	if t := report.Type(c.Param("type")); t.IsValid() {
		labels[telemetry.ProfilingLabelReportType] = t.String()
	}
	return labels
}
