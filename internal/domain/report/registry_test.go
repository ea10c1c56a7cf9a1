package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtypesFor(t *testing.T) {
	tests := []struct {
		reportType Type
		expected   []Subtype
	}{
		{TypeSales, []Subtype{SubtypeGeneral, SubtypeByProduct}},
		{TypeInventory, []Subtype{SubtypeGeneral, SubtypeCategories, SubtypeLowStock}},
		{TypeCustomers, []Subtype{SubtypeGeneral, SubtypeFrequent}},
		{TypeCashRegister, []Subtype{SubtypeSessions, SubtypeSummary}},
		{TypeStockMovements, []Subtype{SubtypeGeneral, SubtypeByRegister}},
	}

	for _, tt := range tests {
		t.Run(string(tt.reportType), func(t *testing.T) {
			options := SubtypesFor(tt.reportType)
			require.Len(t, options, len(tt.expected))
			for i, opt := range options {
				assert.Equal(t, tt.expected[i], opt.Value)
				assert.NotEmpty(t, opt.Label)
			}
			assert.Equal(t, tt.expected[0], DefaultSubtype(tt.reportType))
		})
	}
}

func TestSubtypesFor_UnknownType(t *testing.T) {
	assert.Empty(t, SubtypesFor(Type("compras")))
	assert.Equal(t, Subtype(""), DefaultSubtype(Type("compras")))
}

func TestSubtypesFor_ReturnsCopy(t *testing.T) {
	options := SubtypesFor(TypeSales)
	options[0].Value = "tampered"
	assert.Equal(t, SubtypeGeneral, DefaultSubtype(TypeSales))
}

func TestIsValidSubtype(t *testing.T) {
	assert.True(t, IsValidSubtype(TypeInventory, SubtypeCategories))
	assert.False(t, IsValidSubtype(TypeSales, SubtypeCategories))
	assert.False(t, IsValidSubtype(Type("unknown"), SubtypeGeneral))
}

func TestSubtypeLabel(t *testing.T) {
	assert.Equal(t, "By category", SubtypeLabel(TypeInventory, SubtypeCategories))
	assert.Equal(t, "nope", SubtypeLabel(TypeInventory, "nope"))
}

func TestRequiredFilters(t *testing.T) {
	assert.Equal(t, []FilterField{FilterDateRange}, RequiredFilters(TypeSales, SubtypeGeneral))
	assert.Equal(t, []FilterField{FilterDateRange}, RequiredFilters(TypeCashRegister, SubtypeSummary))
	assert.Empty(t, RequiredFilters(TypeInventory, SubtypeGeneral))
	assert.Empty(t, RequiredFilters(TypeCustomers, SubtypeFrequent))
	assert.Nil(t, RequiredFilters(TypeSales, SubtypeLowStock))
}

func TestType(t *testing.T) {
	for _, rt := range AllTypes() {
		assert.True(t, rt.IsValid())
		assert.NotEqual(t, string(rt), rt.Label())
	}

	parsed, err := ParseType("caja")
	require.NoError(t, err)
	assert.Equal(t, TypeCashRegister, parsed)

	_, err = ParseType("cash")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidType)

	assert.True(t, TypeCashRegister.Landscape())
	assert.True(t, TypeStockMovements.Landscape())
	assert.False(t, TypeSales.Landscape())
	assert.False(t, TypeInventory.Landscape())
}
