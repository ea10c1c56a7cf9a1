package report

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	products := []Product{
		{Stock: decimal.NewFromInt(10), StockValue: decimal.NewFromInt(100)},
		{Stock: decimal.NewFromInt(2), StockValue: decimal.NewFromInt(50), LowStock: true},
		{Stock: decimal.NewFromInt(0), StockValue: decimal.Zero, LowStock: true},
	}

	s := Summarize(products)
	assert.Equal(t, int64(3), s.ProductCount)
	assert.Equal(t, int64(2), s.LowStockCount)
	assert.True(t, s.TotalStock.Equal(decimal.NewFromInt(12)))
	assert.True(t, s.TotalStockValue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "50", s.AverageValue.String())

	empty := Summarize(nil)
	assert.Equal(t, int64(0), empty.ProductCount)
	assert.True(t, empty.AverageValue.IsZero())
}

func TestCashRegisterReport_Totals(t *testing.T) {
	r := &CashRegisterReport{
		Sessions: []CashSession{
			{OpeningAmount: decimal.NewFromInt(100), CashTotal: decimal.NewFromInt(40), QRTotal: decimal.NewFromInt(5)},
			{OpeningAmount: decimal.NewFromInt(50), CashTotal: decimal.NewFromInt(10), CardTotal: decimal.NewFromInt(7)},
		},
	}

	totals := r.Totals()
	assert.True(t, totals.OpeningTotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, totals.CashTotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, totals.QRTotal.Equal(decimal.NewFromInt(5)))
	assert.True(t, totals.CardTotal.Equal(decimal.NewFromInt(7)))

	r.Aggregate = &CashAggregate{CashTotal: decimal.NewFromInt(999)}
	assert.True(t, r.Totals().CashTotal.Equal(decimal.NewFromInt(999)))
}

func TestIsEmpty(t *testing.T) {
	sales := &SalesReport{Sales: []Sale{{ID: "1"}}}
	assert.False(t, sales.IsEmpty(SubtypeGeneral))
	assert.True(t, sales.IsEmpty(SubtypeByProduct))

	inv := &InventoryReport{Products: []Product{{ID: "1"}}}
	assert.False(t, inv.IsEmpty(SubtypeGeneral))
	assert.True(t, inv.IsEmpty(SubtypeLowStock))
	assert.True(t, inv.IsEmpty(SubtypeCategories))

	mov := &StockMovementReport{Movements: []Movement{{ID: "1"}}}
	assert.False(t, mov.IsEmpty(SubtypeGeneral))
	assert.True(t, mov.IsEmpty(SubtypeByRegister))

	assert.True(t, (&CustomerReport{}).IsEmpty(SubtypeGeneral))
	assert.True(t, (&CashRegisterReport{}).IsEmpty(SubtypeSessions))
}

func TestMarshalJSON_PassesThroughExtra(t *testing.T) {
	r := &CustomerReport{
		Customers: []Customer{},
		Extra:     map[string]any{"sucursal": "Centro", "clientes": "shadowed"},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Centro", decoded["sucursal"])
	assert.Equal(t, []any{}, decoded["clientes"], "typed fields win over extra keys")
}

func TestMarshalJSON_DecimalsAsStrings(t *testing.T) {
	r := &SalesReport{
		Sales:    []Sale{},
		Products: []ProductSale{},
		Summary: SalesSummary{
			TotalAmount:     decimal.RequireFromString("10.50"),
			ByPaymentMethod: map[string]decimal.Decimal{"efectivo": decimal.RequireFromString("10.5")},
		},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"por_metodo_pago":{"efectivo":"10.5"}`)
	assert.Contains(t, string(data), `"total_ventas":"10.5"`)
}
