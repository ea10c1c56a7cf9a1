package report

import (
	"context"
	"sync"
	"time"

	"github.com/erp/pos-reports/internal/domain/export"
	"github.com/erp/pos-reports/internal/domain/report"
)

// Generator produces a normalized report for a request
type Generator interface {
	Generate(ctx context.Context, session report.SessionContext, req report.Request) (report.NormalizedReport, error)
}

// Controller holds the filter state and the last generated report of one
// workspace. It is safe for concurrent use; the collaborator call runs
// outside the lock.
type Controller struct {
	mu        sync.Mutex
	generator Generator
	exporter  *ExportService
	now       func() time.Time

	request       report.Request
	current       report.NormalizedReport
	reportRequest report.Request
	generatedAt   time.Time
	lastErr       error

	// generation is bumped by every Generate and every type change.
	// Only the response for the latest generation is applied.
	generation uint64
	inFlight   int
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithControllerClock overrides the clock used for GeneratedAt
func WithControllerClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller starting on report type t with its default subtype
func NewController(generator Generator, exporter *ExportService, t report.Type, opts ...ControllerOption) *Controller {
	c := &Controller{
		generator: generator,
		exporter:  exporter,
		now:       time.Now,
		request:   report.NewRequest(t),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot is a read-only copy of controller state
type Snapshot struct {
	Request       report.Request
	Report        report.NormalizedReport
	ReportRequest report.Request
	GeneratedAt   time.Time
	LastError     error
	Loading       bool
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Request:       c.request,
		Report:        c.current,
		ReportRequest: c.reportRequest,
		GeneratedAt:   c.generatedAt,
		LastError:     c.lastErr,
		Loading:       c.inFlight > 0,
	}
}

// Request returns the pending request
func (c *Controller) Request() report.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.request
}

// SetType switches report type. The subtype resets to the type's default,
// the current report is discarded and any in-flight response becomes stale.
// Selecting the current type again changes nothing.
func (c *Controller) SetType(t report.Type) error {
	if !t.IsValid() {
		return report.NewInvalidTypeError(string(t))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == c.request.Type {
		return nil
	}
	c.request = c.request.WithType(t)
	c.current = nil
	c.reportRequest = report.Request{}
	c.generatedAt = time.Time{}
	c.lastErr = nil
	c.generation++
	return nil
}

// SetSubtype selects a subtype of the current type
func (c *Controller) SetSubtype(s report.Subtype) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !report.IsValidSubtype(c.request.Type, s) {
		return report.NewInvalidSubtypeError(c.request.Type, s)
	}
	c.request.Subtype = s
	return nil
}

// SetDateRange sets the period filter
func (c *Controller) SetDateRange(r report.DateRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.request.DateRange = r
}

// SetCategory sets or clears the inventory category filter
func (c *Controller) SetCategory(id *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.request.CategoryID = id
}

// SetBranch sets the request branch used when the session has none
func (c *Controller) SetBranch(id *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.request.BranchID = id
}

// Generate runs the pending request. When a later Generate or a type change
// happens before the response arrives, the response is dropped and
// Superseded is returned. On failure the previous report is kept.
func (c *Controller) Generate(ctx context.Context, session report.SessionContext) (report.NormalizedReport, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	req := c.request
	c.inFlight++
	c.mu.Unlock()

	result, err := c.generator.Generate(ctx, session, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	if gen != c.generation {
		return nil, report.NewSupersededError()
	}
	if err != nil {
		c.lastErr = err
		return nil, err
	}
	c.current = result
	c.reportRequest = req
	c.generatedAt = c.now()
	c.lastErr = nil
	return result, nil
}

// View renders the current report
func (c *Controller) View() View {
	snap := c.Snapshot()
	return Render(snap.Report, snap.ReportRequest.Subtype)
}

// ExportDocument exports the current report as PDF
func (c *Controller) ExportDocument(ctx context.Context, session report.SessionContext) (*export.Artifact, error) {
	return c.Export(ctx, session, export.FormatPDF)
}

// ExportSpreadsheet exports the current report as XLSX
func (c *Controller) ExportSpreadsheet(ctx context.Context, session report.SessionContext) (*export.Artifact, error) {
	return c.Export(ctx, session, export.FormatXLSX)
}

// Export exports the report snapshot taken at call time
func (c *Controller) Export(ctx context.Context, session report.SessionContext, format export.Format) (*export.Artifact, error) {
	snap := c.Snapshot()
	if snap.Report == nil {
		return nil, report.NewNothingToExportError()
	}
	meta := ExportMeta{
		BranchName: session.BranchName,
		DateRange:  snap.ReportRequest.DateRange,
	}
	return c.exporter.Export(ctx, format, snap.Report, snap.ReportRequest.Subtype, meta)
}
