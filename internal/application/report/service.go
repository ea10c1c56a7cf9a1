package report

import (
	"context"
	"errors"

	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Collaborator fetches raw report payloads from the remote report service
type Collaborator interface {
	FetchReport(ctx context.Context, t report.Type, subtype report.Subtype, filters report.Filters) (map[string]any, error)
}

// userMessager is implemented by collaborator errors that carry a message
// meant for the operator.
type userMessager interface {
	UserMessage() string
}

// ReportService generates normalized reports. It is stateless; per-user
// filter state lives in Controller.
type ReportService struct {
	collaborator Collaborator
	adapter      *Adapter
	metrics      *telemetry.ReportMetrics
	logger       *zap.Logger
}

// ServiceOption configures a ReportService
type ServiceOption func(*ReportService)

// WithServiceMetrics records generation outcomes on m
func WithServiceMetrics(m *telemetry.ReportMetrics) ServiceOption {
	return func(s *ReportService) {
		s.metrics = m
	}
}

// NewReportService creates a new ReportService
func NewReportService(collaborator Collaborator, adapter *Adapter, logger *zap.Logger, opts ...ServiceOption) *ReportService {
	if adapter == nil {
		adapter = NewAdapter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		collaborator: collaborator,
		adapter:      adapter,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate fetches and normalizes one report.
//
// The session branch takes precedence over the request branch. Without either
// the collaborator is not called and NoBranchSelected is returned. A subtype
// the registry does not know yields an empty report of the requested type.
func (s *ReportService) Generate(ctx context.Context, session report.SessionContext, req report.Request) (report.NormalizedReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "generate",
		telemetry.WithAttribute(telemetry.SpanAttrReportType, string(req.Type)),
		telemetry.WithAttribute(telemetry.SpanAttrReportSubtype, string(req.Subtype)),
	)
	defer span.End()

	result, err := s.generate(ctx, session, req)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordFailed(ctx, string(req.Type), string(report.KindOf(err)))
		return nil, err
	}
	telemetry.SetOK(span)
	s.metrics.RecordGenerated(ctx, string(req.Type))
	return result, nil
}

func (s *ReportService) generate(ctx context.Context, session report.SessionContext, req report.Request) (report.NormalizedReport, error) {
	branchID := session.BranchID
	if branchID == nil {
		branchID = req.BranchID
	}
	if branchID == nil {
		return nil, report.NewNoBranchSelectedError()
	}

	if !req.Type.IsValid() {
		return nil, report.NewInvalidTypeError(string(req.Type))
	}
	if !report.IsValidSubtype(req.Type, req.Subtype) {
		s.logger.Warn("Unknown report subtype, returning empty report",
			zap.String("report_type", string(req.Type)),
			zap.String("subtype", string(req.Subtype)),
		)
		telemetry.AddEvent(trace.SpanFromContext(ctx), "report.unknown_subtype")
		return s.adapter.Empty(req.Type), nil
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filters := req.Filters()
	filters.BranchID = branchID

	raw, err := s.fetch(ctx, req, filters)
	if err != nil {
		s.logger.Error("Report collaborator call failed",
			zap.String("report_type", string(req.Type)),
			zap.String("subtype", string(req.Subtype)),
			zap.Int64("branch_id", *branchID),
			zap.Error(err),
		)
		return nil, report.NewCollaboratorUnavailableError(collaboratorMessage(err), err)
	}

	normalized := s.adapter.Adapt(raw, req.Type)
	if normalized == nil {
		normalized = s.adapter.Empty(req.Type)
	}
	return normalized, nil
}

// fetch calls the collaborator inside a client span
func (s *ReportService) fetch(ctx context.Context, req report.Request, filters report.Filters) (map[string]any, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collaborator", "fetch_report",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrReportType, string(req.Type)),
		telemetry.WithAttribute(telemetry.SpanAttrBranchID, *filters.BranchID),
	)
	defer span.End()

	raw, err := s.collaborator.FetchReport(ctx, req.Type, req.Subtype, filters)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return raw, nil
}

func collaboratorMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return ""
}
