package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Export duration buckets in seconds
var exportDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// ReportMetrics records report generation and export outcomes.
// A nil *ReportMetrics is valid and records nothing.
type ReportMetrics struct {
	generated      *Counter
	failed         *Counter
	exports        *Counter
	exportDuration *Histogram
}

// NewReportMetrics registers the report instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	generated, err := NewCounter(meter, "pos_reports_generated_total", "Reports generated successfully", "{report}")
	if err != nil {
		return nil, err
	}
	failed, err := NewCounter(meter, "pos_reports_failed_total", "Report generations that failed", "{report}")
	if err != nil {
		return nil, err
	}
	exports, err := NewCounter(meter, "pos_report_exports_total", "Report exports by format and status", "{export}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "pos_report_export_duration_seconds",
		Description: "Time spent producing an export artifact",
		Unit:        "s",
		Boundaries:  exportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &ReportMetrics{
		generated:      generated,
		failed:         failed,
		exports:        exports,
		exportDuration: duration,
	}, nil
}

// RecordGenerated counts a successful generation
func (m *ReportMetrics) RecordGenerated(ctx context.Context, reportType string) {
	if m == nil {
		return
	}
	m.generated.Inc(ctx, AttrReportType.String(reportType))
}

// RecordFailed counts a failed generation by error kind
func (m *ReportMetrics) RecordFailed(ctx context.Context, reportType, kind string) {
	if m == nil {
		return
	}
	m.failed.Inc(ctx, AttrReportType.String(reportType), AttrErrorKind.String(kind))
}

// RecordExport counts an export attempt and observes its duration
func (m *ReportMetrics) RecordExport(ctx context.Context, reportType, format string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.exports.Inc(ctx,
		AttrReportType.String(reportType),
		AttrReportFormat.String(format),
		AttrStatus.String(status),
	)
	m.exportDuration.RecordDuration(ctx, d,
		AttrReportType.String(reportType),
		AttrReportFormat.String(format),
	)
}
