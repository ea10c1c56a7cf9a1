package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockCollaborator is a mock implementation of Collaborator
type MockCollaborator struct {
	mock.Mock
}

func (m *MockCollaborator) FetchReport(ctx context.Context, t report.Type, subtype report.Subtype, filters report.Filters) (map[string]any, error) {
	args := m.Called(ctx, t, subtype, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// serverError carries a message returned by the report service
type serverError struct {
	msg string
}

func (e *serverError) Error() string       { return "status 500: " + e.msg }
func (e *serverError) UserMessage() string { return e.msg }

func int64Ptr(v int64) *int64 { return &v }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func branchSession() report.SessionContext {
	return report.SessionContext{BranchID: int64Ptr(3), BranchName: "Centro", UserID: "u-1"}
}

func marchRange() report.DateRange {
	return report.DateRange{Start: datePtr(2024, 3, 1), End: datePtr(2024, 3, 31)}
}

func newTestService(t *testing.T, collaborator reportapp.Collaborator) *reportapp.ReportService {
	return reportapp.NewReportService(collaborator, newTestAdapter(), zaptest.NewLogger(t))
}

func TestReportService_NoBranchSelected(t *testing.T) {
	collaborator := new(MockCollaborator)
	svc := newTestService(t, collaborator)

	req := report.NewRequest(report.TypeSales)
	req.DateRange = marchRange()

	r, err := svc.Generate(context.Background(), report.SessionContext{}, req)

	assert.Nil(t, r)
	assert.ErrorIs(t, err, report.ErrNoBranchSelected)
	collaborator.AssertNotCalled(t, "FetchReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_RequestBranchUsedWithoutSession(t *testing.T) {
	collaborator := new(MockCollaborator)
	collaborator.On("FetchReport", mock.Anything, report.TypeCustomers, report.SubtypeGeneral,
		mock.MatchedBy(func(f report.Filters) bool { return f.BranchID != nil && *f.BranchID == 9 }),
	).Return(map[string]any{"clientes": []any{}}, nil)

	req := report.NewRequest(report.TypeCustomers)
	req.BranchID = int64Ptr(9)

	r, err := newTestService(t, collaborator).Generate(context.Background(), report.SessionContext{}, req)

	require.NoError(t, err)
	assert.Equal(t, report.TypeCustomers, r.ReportType())
	collaborator.AssertExpectations(t)
}

func TestReportService_SessionBranchWins(t *testing.T) {
	collaborator := new(MockCollaborator)
	collaborator.On("FetchReport", mock.Anything, report.TypeCustomers, report.SubtypeGeneral,
		mock.MatchedBy(func(f report.Filters) bool { return *f.BranchID == 3 }),
	).Return(map[string]any{}, nil)

	req := report.NewRequest(report.TypeCustomers)
	req.BranchID = int64Ptr(9)

	_, err := newTestService(t, collaborator).Generate(context.Background(), branchSession(), req)

	require.NoError(t, err)
	collaborator.AssertExpectations(t)
}

func TestReportService_InvalidSubtypeYieldsEmptyReport(t *testing.T) {
	collaborator := new(MockCollaborator)
	req := report.NewRequest(report.TypeSales)
	req.Subtype = report.Subtype("por_hora")

	r, err := newTestService(t, collaborator).Generate(context.Background(), branchSession(), req)

	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, report.TypeSales, r.ReportType())
	assert.True(t, r.IsEmpty(req.Subtype))
	collaborator.AssertNotCalled(t, "FetchReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_MissingDateRange(t *testing.T) {
	collaborator := new(MockCollaborator)
	req := report.NewRequest(report.TypeCashRegister)
	req.DateRange = report.DateRange{Start: datePtr(2024, 3, 1)}

	_, err := newTestService(t, collaborator).Generate(context.Background(), branchSession(), req)

	assert.ErrorIs(t, err, report.ErrMissingFilter)
	collaborator.AssertNotCalled(t, "FetchReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_CategoryOnlySentForInventory(t *testing.T) {
	collaborator := new(MockCollaborator)
	collaborator.On("FetchReport", mock.Anything, report.TypeInventory, report.SubtypeGeneral,
		mock.MatchedBy(func(f report.Filters) bool { return f.CategoryID != nil && *f.CategoryID == 4 }),
	).Return(map[string]any{}, nil).Once()
	collaborator.On("FetchReport", mock.Anything, report.TypeSales, report.SubtypeGeneral,
		mock.MatchedBy(func(f report.Filters) bool { return f.CategoryID == nil && f.StartDate != nil }),
	).Return(map[string]any{}, nil).Once()

	svc := newTestService(t, collaborator)

	inv := report.NewRequest(report.TypeInventory)
	inv.CategoryID = int64Ptr(4)
	_, err := svc.Generate(context.Background(), branchSession(), inv)
	require.NoError(t, err)

	sales := report.NewRequest(report.TypeSales)
	sales.CategoryID = int64Ptr(4)
	sales.DateRange = marchRange()
	_, err = svc.Generate(context.Background(), branchSession(), sales)
	require.NoError(t, err)

	collaborator.AssertExpectations(t)
}

func TestReportService_CollaboratorFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "server message", err: &serverError{msg: "Sucursal sin datos"}, message: "Sucursal sin datos"},
		{name: "transport error", err: errors.New("dial tcp: connection refused"), message: report.DefaultCollaboratorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collaborator := new(MockCollaborator)
			collaborator.On("FetchReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			req := report.NewRequest(report.TypeCustomers)
			_, err := newTestService(t, collaborator).Generate(context.Background(), branchSession(), req)

			require.ErrorIs(t, err, report.ErrCollaboratorUnavailable)
			var re *report.ReportError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.message, re.Message)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestReportService_NilPayloadIsEmptyReport(t *testing.T) {
	collaborator := new(MockCollaborator)
	collaborator.On("FetchReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	r, err := newTestService(t, collaborator).Generate(context.Background(), branchSession(), report.NewRequest(report.TypeCustomers))

	require.NoError(t, err)
	require.NotNil(t, r)
	assert.True(t, r.IsEmpty(report.SubtypeGeneral))
}

func TestReportService_AdaptsPayload(t *testing.T) {
	collaborator := new(MockCollaborator)
	collaborator.On("FetchReport", mock.Anything, report.TypeSales, report.SubtypeGeneral, mock.Anything).
		Return(decode(t, `{"ventas":[{"id_venta":1,"total":"150.50","metodo_pago":"efectivo"}],"resumen":{"total_ventas":150.5,"cantidad_ventas":1}}`), nil)

	req := report.NewRequest(report.TypeSales)
	req.DateRange = marchRange()

	r, err := newTestService(t, collaborator).Generate(context.Background(), branchSession(), req)

	require.NoError(t, err)
	sales, ok := r.(*report.SalesReport)
	require.True(t, ok)
	require.Len(t, sales.Sales, 1)
	assert.Equal(t, "150.5", sales.Sales[0].Total.String())
	assert.Equal(t, int64(1), sales.Summary.Count)
}
