package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestNewRequest(t *testing.T) {
	req := NewRequest(TypeCashRegister)
	assert.Equal(t, TypeCashRegister, req.Type)
	assert.Equal(t, SubtypeSessions, req.Subtype)
}

func TestRequest_WithTypeResetsSubtype(t *testing.T) {
	req := NewRequest(TypeInventory)
	req.Subtype = SubtypeLowStock
	req.CategoryID = int64Ptr(4)

	same := req.WithType(TypeInventory)
	assert.Equal(t, SubtypeGeneral, same.Subtype)
	assert.Equal(t, int64(4), *same.CategoryID)

	switched := req.WithType(TypeStockMovements)
	assert.Equal(t, TypeStockMovements, switched.Type)
	assert.Equal(t, SubtypeGeneral, switched.Subtype)
	assert.Nil(t, switched.CategoryID)

	// original untouched
	assert.Equal(t, SubtypeLowStock, req.Subtype)
}

func TestRequest_Validate(t *testing.T) {
	complete := DateRange{Start: datePtr(2024, 3, 1), End: datePtr(2024, 3, 31)}

	tests := []struct {
		name string
		req  Request
		kind ErrorKind
	}{
		{"valid sales", Request{Type: TypeSales, Subtype: SubtypeGeneral, DateRange: complete}, ""},
		{"valid inventory without dates", Request{Type: TypeInventory, Subtype: SubtypeCategories}, ""},
		{"unknown type", Request{Type: "compras", Subtype: SubtypeGeneral}, KindInvalidType},
		{"foreign subtype", Request{Type: TypeSales, Subtype: SubtypeCategories, DateRange: complete}, KindInvalidSubtype},
		{"sales without dates", Request{Type: TypeSales, Subtype: SubtypeGeneral}, KindMissingFilter},
		{"cash with half range", Request{Type: TypeCashRegister, Subtype: SubtypeSessions, DateRange: DateRange{Start: datePtr(2024, 3, 1)}}, KindMissingFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestRequest_Filters(t *testing.T) {
	start, end := datePtr(2024, 3, 1), datePtr(2024, 3, 5)
	req := Request{
		Type:       TypeSales,
		Subtype:    SubtypeGeneral,
		DateRange:  DateRange{Start: start, End: end},
		BranchID:   int64Ptr(2),
		CategoryID: int64Ptr(9),
	}

	f := req.Filters()
	assert.Equal(t, start, f.StartDate)
	assert.Equal(t, end, f.EndDate)
	assert.Equal(t, int64(2), *f.BranchID)
	assert.Nil(t, f.CategoryID, "category only applies to inventory")

	req.Type = TypeInventory
	f = req.Filters()
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, int64(9), *f.CategoryID)
}

func TestSessionContext_HasBranch(t *testing.T) {
	assert.False(t, SessionContext{UserID: "u1"}.HasBranch())
	assert.True(t, SessionContext{BranchID: int64Ptr(1)}.HasBranch())
}

func TestReportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCollaboratorUnavailableError("", cause)

	assert.Equal(t, DefaultCollaboratorMessage, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrCollaboratorUnavailable)
	assert.NotErrorIs(t, err, ErrNoBranchSelected)
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := errors.Join(errors.New("outer"), NewExportFailedError("pdf", cause))
	assert.Equal(t, KindExportFailed, KindOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(cause))

	exportErr := NewExportFailedError("xlsx", cause)
	assert.Equal(t, "xlsx", exportErr.Format)
	assert.Contains(t, exportErr.Message, "xlsx")
}
