package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
)

// DateLayout is the wire format of filter dates
const DateLayout = "2006-01-02"

// ErrInvalidDateRange is returned when end_date precedes start_date
var ErrInvalidDateRange = errors.New("end_date must not be before start_date")

// FilterFields are the filter panel values shared by every endpoint
type FilterFields struct {
	StartDate  string `json:"start_date" form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	CategoryID *int64 `json:"category_id" form:"category_id" binding:"omitempty,gt=0"`
	BranchID   *int64 `json:"branch_id" form:"branch_id" binding:"omitempty,gt=0"`
}

// DateRange parses the date fields. Missing dates stay nil.
func (f FilterFields) DateRange() (report.DateRange, error) {
	var r report.DateRange
	if f.StartDate != "" {
		t, err := time.Parse(DateLayout, f.StartDate)
		if err != nil {
			return r, err
		}
		r.Start = &t
	}
	if f.EndDate != "" {
		t, err := time.Parse(DateLayout, f.EndDate)
		if err != nil {
			return r, err
		}
		r.End = &t
	}
	if r.IsComplete() && r.End.Before(*r.Start) {
		return r, ErrInvalidDateRange
	}
	return r, nil
}

// ApplyTo copies the filters onto req
func (f FilterFields) ApplyTo(req *report.Request) error {
	dateRange, err := f.DateRange()
	if err != nil {
		return err
	}
	req.DateRange = dateRange
	req.CategoryID = f.CategoryID
	req.BranchID = f.BranchID
	return nil
}

// ReportQuery is the query string of the stateless report endpoints
type ReportQuery struct {
	FilterFields
}

// ExportQuery selects the download format
type ExportQuery struct {
	Format string `form:"format" binding:"required,export_format"`
}

// StatelessExportQuery combines filters and format
type StatelessExportQuery struct {
	FilterFields
	ExportQuery
}

// CreateWorkspaceRequest opens a workspace
type CreateWorkspaceRequest struct {
	Type    string `json:"type" binding:"required,report_type"`
	Subtype string `json:"subtype"`
	FilterFields
}

// UpdateFiltersRequest replaces the workspace filters. A type change resets
// the subtype to the type's default unless one is given.
type UpdateFiltersRequest struct {
	Type    string `json:"type" binding:"omitempty,report_type"`
	Subtype string `json:"subtype"`
	FilterFields
}

// ReportTypeResponse describes one report type and its subtypes
type ReportTypeResponse struct {
	Value     report.Type            `json:"value"`
	Label     string                 `json:"label"`
	Landscape bool                   `json:"landscape"`
	Subtypes  []report.SubtypeOption `json:"subtypes"`
}

// NewReportTypeResponses lists the registry in display order
func NewReportTypeResponses() []ReportTypeResponse {
	types := report.AllTypes()
	out := make([]ReportTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, ReportTypeResponse{
			Value:     t,
			Label:     t.Label(),
			Landscape: t.Landscape(),
			Subtypes:  report.SubtypesFor(t),
		})
	}
	return out
}

// ReportResponse is a generated report as displayed
type ReportResponse struct {
	Request     report.Request `json:"request"`
	GeneratedAt time.Time      `json:"generated_at"`
	View        reportapp.View `json:"view"`
}

// WorkspaceResponse is the state of a workspace
type WorkspaceResponse struct {
	ID          uuid.UUID       `json:"id"`
	Request     report.Request  `json:"request"`
	Loading     bool            `json:"loading"`
	GeneratedAt *time.Time      `json:"generated_at,omitempty"`
	LastError   *ErrorInfo      `json:"last_error,omitempty"`
	View        *reportapp.View `json:"view,omitempty"`
}

// NewWorkspaceResponse builds the response from a controller snapshot
func NewWorkspaceResponse(id uuid.UUID, snap reportapp.Snapshot) WorkspaceResponse {
	resp := WorkspaceResponse{
		ID:      id,
		Request: snap.Request,
		Loading: snap.Loading,
	}
	if snap.Report != nil {
		generatedAt := snap.GeneratedAt
		view := reportapp.Render(snap.Report, snap.ReportRequest.Subtype)
		resp.GeneratedAt = &generatedAt
		resp.View = &view
	}
	if snap.LastError != nil {
		resp.LastError = &ErrorInfo{
			Code:    ReportErrorCode(report.KindOf(snap.LastError)),
			Message: UserMessage(snap.LastError),
		}
	}
	return resp
}

// UserMessage returns the message of a report error, or a generic one
func UserMessage(err error) string {
	var re *report.ReportError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return "An unexpected error occurred"
}
