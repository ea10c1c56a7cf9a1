package report_test

import (
	"encoding/json"
	"testing"
	"time"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func newTestAdapter() *reportapp.Adapter {
	return reportapp.NewAdapter(reportapp.WithAdapterClock(func() time.Time { return fixedNow }))
}

// decode simulates a payload arriving over the wire
func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

// roundTrip re-encodes an adapted report the way it would be sent to a client
func roundTrip(t *testing.T, r report.NormalizedReport) map[string]any {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return decode(t, string(data))
}

func TestAdapt_NilPayload(t *testing.T) {
	a := newTestAdapter()
	for _, rt := range report.AllTypes() {
		assert.Nil(t, a.Adapt(nil, rt))
	}
	assert.Nil(t, a.Adapt(map[string]any{}, report.Type("compras")))
}

func TestAdapt_EmptyPayloadIsTotal(t *testing.T) {
	a := newTestAdapter()
	for _, rt := range report.AllTypes() {
		t.Run(string(rt), func(t *testing.T) {
			r := a.Adapt(map[string]any{}, rt)
			require.NotNil(t, r)
			assert.Equal(t, rt, r.ReportType())
			assert.True(t, r.IsEmpty(report.DefaultSubtype(rt)))
		})
	}
}

func TestAdapt_InventoryMissingProducts(t *testing.T) {
	r := newTestAdapter().Adapt(map[string]any{"productos": nil}, report.TypeInventory)

	inv, ok := r.(*report.InventoryReport)
	require.True(t, ok)
	assert.NotNil(t, inv.Products)
	assert.Empty(t, inv.Products)
	assert.Equal(t, int64(0), inv.TotalCount)
	assert.NotNil(t, inv.Categories)
	assert.Empty(t, inv.Categories)
	assert.Equal(t, fixedNow, inv.GeneratedAt)

	data, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"productos":[]`)
	assert.Contains(t, string(data), `"total_productos":0`)
	assert.Contains(t, string(data), `"categorias":[]`)
}

func TestAdapt_EmptySales(t *testing.T) {
	a := newTestAdapter()
	r := a.Adapt(map[string]any{"ventas": []any{}}, report.TypeSales)

	sales := r.(*report.SalesReport)
	assert.True(t, sales.Summary.TotalAmount.IsZero())
	assert.Equal(t, int64(0), sales.Summary.Count)
	assert.True(t, sales.Summary.AverageAmount.IsZero())
	assert.True(t, sales.Summary.TotalItems.IsZero())
	assert.NotNil(t, sales.Summary.ByPaymentMethod)
	assert.True(t, sales.IsEmpty(report.SubtypeGeneral))
}

func TestAdapt_SalesCoercesNumerics(t *testing.T) {
	raw := decode(t, `{
		"ventas": [
			{"id_venta": 101, "fecha": "2024-03-05 10:15:00", "cliente": "Ana", "metodo_pago": "efectivo",
			 "cantidad_items": "3", "total": "150.50", "estado": "completada"},
			{"id_venta": "102", "total": "", "cantidad_items": null}
		],
		"resumen": {"total_ventas": "150.50", "cantidad_ventas": "2", "promedio_venta": 75.25,
		            "por_metodo_pago": {"efectivo": "150.50", "qr": "abc"}},
		"sucursal": "Centro"
	}`)

	sales := newTestAdapter().Adapt(raw, report.TypeSales).(*report.SalesReport)

	require.Len(t, sales.Sales, 2)
	first := sales.Sales[0]
	assert.Equal(t, "101", first.ID)
	assert.True(t, time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC).Equal(first.Date))
	assert.True(t, first.ItemCount.Equal(decimal.NewFromInt(3)))
	assert.True(t, first.Total.Equal(decimal.RequireFromString("150.5")))
	assert.True(t, sales.Sales[1].Total.IsZero())
	assert.True(t, sales.Sales[1].ItemCount.IsZero())

	assert.Equal(t, int64(2), sales.Summary.Count)
	assert.True(t, sales.Summary.AverageAmount.Equal(decimal.RequireFromString("75.25")))
	assert.True(t, sales.Summary.ByPaymentMethod["efectivo"].Equal(decimal.RequireFromString("150.5")))
	assert.True(t, sales.Summary.ByPaymentMethod["qr"].IsZero())
	assert.Equal(t, "Centro", sales.Extra["sucursal"])
}

func TestAdapt_NegativeValuesPreserved(t *testing.T) {
	raw := decode(t, `{"sesiones": [{"id_sesion": 1, "diferencia": "-12.30"}]}`)
	cash := newTestAdapter().Adapt(raw, report.TypeCashRegister).(*report.CashRegisterReport)
	assert.Equal(t, "-12.3", cash.Sessions[0].Difference.String())
	assert.Nil(t, cash.Aggregate)
	assert.NotNil(t, cash.Sessions[0].Movements)
}

func TestAdapt_InventoryDerivesCategories(t *testing.T) {
	raw := decode(t, `{
		"productos": [
			{"id_producto": 1, "nombre": "Coca Cola", "categoria": "Bebidas", "id_categoria": 10, "precio": "2.50", "stock": "10", "stock_minimo": 5},
			{"id_producto": 2, "nombre": "Pan", "categoria": "Panadería", "id_categoria": 20, "precio": 1, "stock": 2, "stock_minimo": 5},
			{"id_producto": 3, "nombre": "Agua", "categoria": "Bebidas", "id_categoria": 10, "precio": 1, "stock": 0, "stock_minimo": 0, "valor_stock": "7"}
		]
	}`)

	inv := newTestAdapter().Adapt(raw, report.TypeInventory).(*report.InventoryReport)

	assert.Equal(t, int64(3), inv.TotalCount)
	assert.True(t, inv.Products[0].StockValue.Equal(decimal.NewFromInt(25)))
	assert.False(t, inv.Products[0].LowStock)
	assert.True(t, inv.Products[1].LowStock)
	assert.True(t, inv.Products[2].StockValue.Equal(decimal.NewFromInt(7)), "server value wins")

	require.Len(t, inv.Categories, 2)
	bebidas := inv.Categories[0]
	assert.Equal(t, "Bebidas", bebidas.Name)
	assert.Equal(t, "10", bebidas.ID)
	assert.Equal(t, int64(2), bebidas.Summary.ProductCount)
	assert.Equal(t, int64(1), bebidas.Summary.LowStockCount)
	assert.True(t, bebidas.Summary.TotalStockValue.Equal(decimal.NewFromInt(32)))
	assert.True(t, bebidas.Summary.AverageValue.Equal(decimal.NewFromInt(16)))
	assert.Equal(t, "Panadería", inv.Categories[1].Name)

	assert.Len(t, inv.LowStockProducts(), 2)
}

func TestAdapt_StockMovementsDerivesGroups(t *testing.T) {
	raw := decode(t, `{
		"movimientos": [
			{"id_movimiento": 1, "producto": "Pan", "cantidad": "-2", "id_caja": 1, "caja": "Caja 1"},
			{"id_movimiento": 2, "producto": "Leche", "cantidad": 5},
			{"id_movimiento": 3, "producto": "Agua", "cantidad": "-1", "id_caja": 1, "caja": "Caja 1"}
		]
	}`)

	mov := newTestAdapter().Adapt(raw, report.TypeStockMovements).(*report.StockMovementReport)

	require.Len(t, mov.ByRegister, 2)
	assert.Equal(t, "Caja 1", mov.ByRegister[0].Register)
	assert.Len(t, mov.ByRegister[0].Movements, 2)
	assert.Equal(t, reportapp.UnassignedRegister, mov.ByRegister[1].Register)
	assert.Equal(t, "-2", mov.Movements[0].Quantity.String())
}

func TestAdapt_Idempotent(t *testing.T) {
	payloads := map[report.Type]string{
		report.TypeSales: `{"ventas": [{"id_venta": 1, "total": "10.5", "cantidad_items": 2, "fecha": "2024-03-05"}],
			"productos": [{"id_producto": 4, "cantidad_vendida": "3", "total_vendido": 9.99}],
			"resumen": {"total_ventas": 10.5, "cantidad_ventas": 1, "por_metodo_pago": {"qr": "10.5"}}, "nota": "x"}`,
		report.TypeInventory: `{"productos": [{"id_producto": 1, "categoria": "A", "precio": "2", "stock": "3", "stock_minimo": "1"}],
			"filtro_categoria": "A"}`,
		report.TypeCustomers: `{"clientes": [{"id_cliente": 1, "cantidad_compras": "4", "total_compras": "99.9", "ultima_compra": "2024-02-01"}]}`,
		report.TypeCashRegister: `{"sesiones": [{"id_sesion": 1, "monto_apertura": "100", "total_qr": 5,
			"movimientos": [{"monto": "-3", "tipo": "egreso"}]}], "totales": {"total_apertura": 100}}`,
		report.TypeStockMovements: `{"movimientos": [{"id_movimiento": 9, "cantidad": "-4", "stock_anterior": 10, "stock_nuevo": 6, "id_caja": 2}]}`,
	}

	a := newTestAdapter()
	for rt, payload := range payloads {
		t.Run(string(rt), func(t *testing.T) {
			once := a.Adapt(decode(t, payload), rt)
			twice := a.Adapt(roundTrip(t, once), rt)

			onceJSON, err := json.Marshal(once)
			require.NoError(t, err)
			twiceJSON, err := json.Marshal(twice)
			require.NoError(t, err)
			assert.JSONEq(t, string(onceJSON), string(twiceJSON))
		})
	}
}

func TestAdapter_Empty(t *testing.T) {
	r := newTestAdapter().Empty(report.TypeCustomers)
	customers, ok := r.(*report.CustomerReport)
	require.True(t, ok)
	assert.NotNil(t, customers.Customers)
	assert.Empty(t, customers.Customers)
}
