package dto

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNoBranchSelected, http.StatusBadRequest},
		{ErrCodeMissingFilter, http.StatusBadRequest},
		{ErrCodeNothingToExport, http.StatusConflict},
		{ErrCodeReportLoading, http.StatusConflict},
		{ErrCodeCollaboratorUnavailable, http.StatusBadGateway},
		{ErrCodeExportFailed, http.StatusInternalServerError},
		{ErrCodeWorkspaceNotFound, http.StatusNotFound},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestReportErrorCode_CoversEveryKind(t *testing.T) {
	kinds := []report.ErrorKind{
		report.KindNoBranchSelected,
		report.KindCollaboratorUnavailable,
		report.KindInvalidType,
		report.KindInvalidSubtype,
		report.KindMissingFilter,
		report.KindNothingToExport,
		report.KindExportFailed,
		report.KindSuperseded,
	}
	for _, k := range kinds {
		code := ReportErrorCode(k)
		assert.NotEqual(t, ErrCodeInternal, code, k)
		_, mapped := ErrorCodeHTTPStatus[code]
		assert.True(t, mapped, code)
	}
	assert.Equal(t, ErrCodeInternal, ReportErrorCode(""))
}

func TestFilterFields_DateRange(t *testing.T) {
	r, err := FilterFields{}.DateRange()
	require.NoError(t, err)
	assert.Nil(t, r.Start)
	assert.Nil(t, r.End)

	r, err = FilterFields{StartDate: "2024-01-01", EndDate: "2024-01-01"}.DateRange()
	require.NoError(t, err)
	require.True(t, r.IsComplete())
	assert.True(t, r.Start.Equal(*r.End))

	_, err = FilterFields{StartDate: "2024-02-01", EndDate: "2024-01-31"}.DateRange()
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = FilterFields{StartDate: "31/01/2024"}.DateRange()
	assert.Error(t, err)
}

func TestFilterFields_ApplyTo(t *testing.T) {
	category := int64(3)
	branch := int64(9)
	req := report.NewRequest(report.TypeInventory)

	err := FilterFields{StartDate: "2024-01-01", CategoryID: &category, BranchID: &branch}.ApplyTo(&req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", req.DateRange.Start.Format(DateLayout))
	assert.Nil(t, req.DateRange.End)
	assert.Equal(t, &category, req.CategoryID)
	assert.Equal(t, &branch, req.BranchID)
	assert.Equal(t, report.SubtypeGeneral, req.Subtype)
}

func TestNewReportTypeResponses(t *testing.T) {
	types := NewReportTypeResponses()
	require.Len(t, types, len(report.AllTypes()))
	for _, rt := range types {
		assert.NotEmpty(t, rt.Label, rt.Value)
		assert.NotEmpty(t, rt.Subtypes, rt.Value)
		assert.Equal(t, report.DefaultSubtype(rt.Value), rt.Subtypes[0].Value)
	}
}

func TestNewWorkspaceResponse(t *testing.T) {
	id := uuid.New()

	t.Run("before generation", func(t *testing.T) {
		resp := NewWorkspaceResponse(id, reportapp.Snapshot{Request: report.NewRequest(report.TypeSales)})
		assert.Equal(t, id, resp.ID)
		assert.Nil(t, resp.View)
		assert.Nil(t, resp.GeneratedAt)
		assert.Nil(t, resp.LastError)
	})

	t.Run("with report and error", func(t *testing.T) {
		at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		snap := reportapp.Snapshot{
			Request:       report.NewRequest(report.TypeCustomers),
			Report:        &report.CustomerReport{Customers: []report.Customer{{Name: "Ana"}}},
			ReportRequest: report.NewRequest(report.TypeCustomers),
			GeneratedAt:   at,
			LastError:     report.NewCollaboratorUnavailableError("Servicio no disponible", errors.New("dial")),
		}
		resp := NewWorkspaceResponse(id, snap)
		require.NotNil(t, resp.View)
		assert.Equal(t, report.TypeCustomers, resp.View.Type)
		require.NotNil(t, resp.GeneratedAt)
		assert.True(t, at.Equal(*resp.GeneratedAt))
		require.NotNil(t, resp.LastError)
		assert.Equal(t, ErrCodeCollaboratorUnavailable, resp.LastError.Code)
		assert.Equal(t, "Servicio no disponible", resp.LastError.Message)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", UserMessage(errors.New("raw driver error")))
	assert.NotEmpty(t, UserMessage(report.NewNoBranchSelectedError()))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "missing", "req-9")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-9", resp.Error.RequestID)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}
