package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/pos-reports/internal/domain/export"
	"github.com/erp/pos-reports/internal/domain/printing"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DocumentRenderer turns a laid-out document into PDF bytes
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, doc *printing.Document) ([]byte, error)
}

// WorkbookWriter serializes a workbook into XLSX bytes
type WorkbookWriter interface {
	Write(ctx context.Context, wb *export.Workbook) ([]byte, error)
}

// ArtifactStore archives generated artifacts and returns their location
type ArtifactStore interface {
	Save(ctx context.Context, artifact *export.Artifact) (string, error)
}

// ExportService produces downloadable artifacts from normalized reports
type ExportService struct {
	documents DocumentRenderer
	workbooks WorkbookWriter
	store     ArtifactStore
	metrics   *telemetry.ReportMetrics
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location
}

// ExportOption configures an ExportService
type ExportOption func(*ExportService)

// WithArtifactStore archives every successful export in store
func WithArtifactStore(store ArtifactStore) ExportOption {
	return func(s *ExportService) {
		s.store = store
	}
}

// WithExportClock overrides the clock used for timestamps and filenames
func WithExportClock(now func() time.Time) ExportOption {
	return func(s *ExportService) {
		s.now = now
	}
}

// WithExportLocation sets the time zone used for timestamps and filenames
func WithExportLocation(loc *time.Location) ExportOption {
	return func(s *ExportService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithExportMetrics records export outcomes on m
func WithExportMetrics(m *telemetry.ReportMetrics) ExportOption {
	return func(s *ExportService) {
		s.metrics = m
	}
}

// NewExportService creates a new ExportService
func NewExportService(documents DocumentRenderer, workbooks WorkbookWriter, logger *zap.Logger, opts ...ExportOption) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		documents: documents,
		workbooks: workbooks,
		logger:    logger,
		now:       time.Now,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportDocument renders r as a PDF artifact
func (s *ExportService) ExportDocument(ctx context.Context, r report.NormalizedReport, subtype report.Subtype, meta ExportMeta) (*export.Artifact, error) {
	return s.export(ctx, r, subtype, export.FormatPDF, func(ctx context.Context, generatedAt time.Time) ([]byte, error) {
		meta.GeneratedAt = generatedAt
		doc := BuildDocument(r, subtype, meta)
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if s.documents == nil {
			return nil, errors.New("no document renderer configured")
		}
		return s.documents.RenderDocument(ctx, doc)
	})
}

// ExportSpreadsheet writes r as an XLSX artifact
func (s *ExportService) ExportSpreadsheet(ctx context.Context, r report.NormalizedReport, subtype report.Subtype, _ ExportMeta) (*export.Artifact, error) {
	return s.export(ctx, r, subtype, export.FormatXLSX, func(ctx context.Context, _ time.Time) ([]byte, error) {
		wb := BuildWorkbook(r, subtype)
		if len(wb.Sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		if s.workbooks == nil {
			return nil, errors.New("no workbook writer configured")
		}
		return s.workbooks.Write(ctx, wb)
	})
}

// Export dispatches on format
func (s *ExportService) Export(ctx context.Context, format export.Format, r report.NormalizedReport, subtype report.Subtype, meta ExportMeta) (*export.Artifact, error) {
	switch format {
	case export.FormatPDF:
		return s.ExportDocument(ctx, r, subtype, meta)
	case export.FormatXLSX:
		return s.ExportSpreadsheet(ctx, r, subtype, meta)
	default:
		return nil, report.NewExportFailedError(string(format), fmt.Errorf("unsupported format %q", format))
	}
}

type produceFunc func(ctx context.Context, generatedAt time.Time) ([]byte, error)

func (s *ExportService) export(ctx context.Context, r report.NormalizedReport, subtype report.Subtype, format export.Format, produce produceFunc) (artifact *export.Artifact, err error) {
	if r == nil {
		return nil, report.NewNothingToExportError()
	}

	t := r.ReportType()
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export",
		telemetry.WithAttribute(telemetry.SpanAttrReportType, string(t)),
		telemetry.WithAttribute(telemetry.SpanAttrReportSubtype, string(subtype)),
		telemetry.WithAttribute(telemetry.SpanAttrReportFormat, string(format)),
	)
	defer span.End()

	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			artifact, err = nil, report.NewExportFailedError(string(format), fmt.Errorf("panic: %v", rec))
		}
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetOK(span)
		}
		s.metrics.RecordExport(ctx, string(t), string(format), err == nil, time.Since(started))
	}()

	generatedAt := s.now().In(s.location)
	var data []byte
	telemetry.WithProfilingLabels(ctx, telemetry.ExportLabels(string(t), string(subtype), string(format)), func(ctx context.Context) {
		data, err = produce(ctx, generatedAt)
	})
	if err != nil {
		s.logger.Error("Report export failed",
			zap.String("report_type", string(t)),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil, report.NewExportFailedError(string(format), err)
	}
	if len(data) == 0 {
		return nil, report.NewExportFailedError(string(format), errors.New("renderer produced no data"))
	}

	artifact = export.NewArtifact(string(t), string(subtype), format, data, generatedAt)
	telemetry.SetAttributes(span, telemetry.SpanAttrArtifactSize, artifact.Size())
	s.archive(ctx, span, artifact)
	return artifact, nil
}

func (s *ExportService) archive(ctx context.Context, span trace.Span, artifact *export.Artifact) {
	if s.store == nil {
		return
	}
	location, err := s.store.Save(ctx, artifact)
	if err != nil {
		s.logger.Warn("Failed to archive export artifact",
			zap.String("filename", artifact.Filename),
			zap.Error(err),
		)
		telemetry.AddEvent(span, "artifact.archive_failed", "error", err.Error())
		return
	}
	artifact.Location = location
	telemetry.AddEvent(span, "artifact.archived", "location", location)
}
