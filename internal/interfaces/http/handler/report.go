package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/export"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/interfaces/http/dto"
	"github.com/erp/pos-reports/internal/interfaces/http/middleware"
)

// ReportGenerator is the stateless generation entry point
type ReportGenerator interface {
	Generate(ctx context.Context, session report.SessionContext, req report.Request) (report.NormalizedReport, error)
}

// ReportExporter turns a generated report into a downloadable artifact
type ReportExporter interface {
	Export(ctx context.Context, format export.Format, r report.NormalizedReport, subtype report.Subtype, meta reportapp.ExportMeta) (*export.Artifact, error)
}

// ReportHandler serves one-shot report generation and export. No state is
// kept between calls; see WorkspaceHandler for the stateful flow.
type ReportHandler struct {
	BaseHandler
	clock
	generator ReportGenerator
	exporter  ReportExporter
}

// ReportHandlerOption configures a ReportHandler
type ReportHandlerOption func(*ReportHandler)

// WithReportClock overrides the clock used for generated_at
func WithReportClock(now func() time.Time) ReportHandlerOption {
	return func(h *ReportHandler) {
		h.now = now
	}
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(generator ReportGenerator, exporter ReportExporter, opts ...ReportHandlerOption) *ReportHandler {
	h := &ReportHandler{generator: generator, exporter: exporter}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.GET("/types", h.ListTypes)
	reports.GET("/:type/:subtype", h.Generate)
	reports.GET("/:type/:subtype/export", h.Export)
}

// ListTypes godoc
// @ID           listReportTypes
// @Summary      List report types and their subtypes
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /reports/types [get]
func (h *ReportHandler) ListTypes(c *gin.Context) {
	h.Success(c, dto.NewReportTypeResponses())
}

// Generate godoc
// @ID           generateReport
// @Summary      Generate a report
// @Tags         reports
// @Produce      json
// @Param        type        path   string true  "Report type"
// @Param        subtype     path   string true  "Report subtype"
// @Param        start_date  query  string false "YYYY-MM-DD"
// @Param        end_date    query  string false "YYYY-MM-DD"
// @Param        category_id query  int    false "Inventory category"
// @Param        branch_id   query  int    false "Branch when the session has none"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /reports/{type}/{subtype} [get]
func (h *ReportHandler) Generate(c *gin.Context) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}
	req, ok := h.request(c, query.FilterFields)
	if !ok {
		return
	}

	r, err := h.generator.Generate(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ReportResponse{
		Request:     req,
		GeneratedAt: h.Now(),
		View:        reportapp.Render(r, req.Subtype),
	})
}

// Export godoc
// @ID           exportReport
// @Summary      Generate a report and download it
// @Tags         reports
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        type    path  string true "Report type"
// @Param        subtype path  string true "Report subtype"
// @Param        format  query string true "pdf or xlsx"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /reports/{type}/{subtype}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var query dto.StatelessExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req, ok := h.request(c, query.FilterFields)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	session := middleware.GetSession(c)
	r, err := h.generator.Generate(ctx, session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	artifact, err := h.exporter.Export(ctx, format, r, req.Subtype, reportapp.ExportMeta{
		BranchName: session.BranchName,
		DateRange:  req.DateRange,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendArtifact(c, artifact)
}

// request builds the report request from the path and filters. Unknown
// subtypes are rejected here rather than producing an empty report.
func (h *ReportHandler) request(c *gin.Context, filters dto.FilterFields) (report.Request, bool) {
	t, err := report.ParseType(c.Param("type"))
	if err != nil {
		h.HandleError(c, err)
		return report.Request{}, false
	}
	subtype := report.Subtype(c.Param("subtype"))
	if !report.IsValidSubtype(t, subtype) {
		h.HandleError(c, report.NewInvalidSubtypeError(t, subtype))
		return report.Request{}, false
	}

	req := report.Request{Type: t, Subtype: subtype}
	if err := filters.ApplyTo(&req); err != nil {
		h.BadRequest(c, err.Error())
		return report.Request{}, false
	}
	return req, true
}
