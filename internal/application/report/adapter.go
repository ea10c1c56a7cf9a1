package report

import (
	"time"

	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/shopspring/decimal"
)

// UnassignedRegister labels stock movements that were not made through a register
const UnassignedRegister = "Unassigned"

type adaptFunc func(a *Adapter, raw map[string]any) report.NormalizedReport

// Adapter normalizes report service payloads into the canonical per-type
// shape. Adaptation is total: missing keys get defaults and nothing panics.
type Adapter struct {
	now      func() time.Time
	adapters map[report.Type]adaptFunc
}

// AdapterOption configures an Adapter
type AdapterOption func(*Adapter)

// WithAdapterClock sets the clock used for generation timestamps
func WithAdapterClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) {
		a.now = now
	}
}

// NewAdapter creates an Adapter with one adapt function per report type
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{
		now: time.Now,
		adapters: map[report.Type]adaptFunc{
			report.TypeSales:          adaptSales,
			report.TypeInventory:      adaptInventory,
			report.TypeCustomers:      adaptCustomers,
			report.TypeCashRegister:   adaptCashRegister,
			report.TypeStockMovements: adaptStockMovements,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Adapt normalizes raw for type t. A nil payload or an unknown type yields nil.
func (a *Adapter) Adapt(raw map[string]any, t report.Type) report.NormalizedReport {
	if raw == nil {
		return nil
	}
	fn, ok := a.adapters[t]
	if !ok {
		return nil
	}
	return fn(a, raw)
}

// Empty returns the empty report of type t
func (a *Adapter) Empty(t report.Type) report.NormalizedReport {
	return a.Adapt(map[string]any{}, t)
}

func adaptSales(_ *Adapter, raw map[string]any) report.NormalizedReport {
	r := &report.SalesReport{
		Sales:    []report.Sale{},
		Products: []report.ProductSale{},
		Extra:    extraKeys(raw, "ventas", "productos", "resumen"),
	}
	for _, m := range asMaps(raw["ventas"]) {
		r.Sales = append(r.Sales, report.Sale{
			ID:            toString(m["id_venta"]),
			Date:          toTime(m["fecha"]),
			Customer:      toString(m["cliente"]),
			User:          toString(m["usuario"]),
			PaymentMethod: toString(m["metodo_pago"]),
			ItemCount:     toDecimal(m["cantidad_items"]),
			Total:         toDecimal(m["total"]),
			Status:        toString(m["estado"]),
		})
	}
	for _, m := range asMaps(raw["productos"]) {
		r.Products = append(r.Products, report.ProductSale{
			ProductID:    toString(m["id_producto"]),
			Code:         toString(m["codigo"]),
			Name:         toString(m["nombre"]),
			Category:     toString(m["categoria"]),
			QuantitySold: toDecimal(m["cantidad_vendida"]),
			TotalSold:    toDecimal(m["total_vendido"]),
		})
	}

	summary := asMap(raw["resumen"])
	r.Summary = report.SalesSummary{
		TotalAmount:     toDecimal(summary["total_ventas"]),
		Count:           toInt(summary["cantidad_ventas"]),
		AverageAmount:   toDecimal(summary["promedio_venta"]),
		TotalItems:      toDecimal(summary["total_items"]),
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	for method, amount := range asMap(summary["por_metodo_pago"]) {
		r.Summary.ByPaymentMethod[method] = toDecimal(amount)
	}
	return r
}

func adaptInventory(a *Adapter, raw map[string]any) report.NormalizedReport {
	r := &report.InventoryReport{
		Products:            adaptProducts(raw["productos"]),
		CategoryFilterLabel: toString(raw["filtro_categoria"]),
		Extra:               extraKeys(raw, "productos", "total_productos", "categorias", "filtro_categoria", "fecha_generacion"),
	}

	if hasKey(raw, "total_productos") {
		r.TotalCount = toInt(raw["total_productos"])
	} else {
		r.TotalCount = int64(len(r.Products))
	}

	r.GeneratedAt = toTime(raw["fecha_generacion"])
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = a.now()
	}

	if hasKey(raw, "categorias") {
		r.Categories = adaptCategories(raw["categorias"])
	} else {
		r.Categories = groupByCategory(r.Products)
	}
	return r
}

func adaptProducts(v any) []report.Product {
	products := []report.Product{}
	for _, m := range asMaps(v) {
		p := report.Product{
			ID:         toString(m["id_producto"]),
			Code:       toString(m["codigo"]),
			Name:       toString(m["nombre"]),
			Category:   toString(m["categoria"]),
			CategoryID: toString(m["id_categoria"]),
			Price:      toDecimal(m["precio"]),
			Cost:       toDecimal(m["costo"]),
			Stock:      toDecimal(m["stock"]),
			MinStock:   toDecimal(m["stock_minimo"]),
		}
		if hasKey(m, "valor_stock") {
			p.StockValue = toDecimal(m["valor_stock"])
		} else {
			p.StockValue = p.Stock.Mul(p.Price)
		}
		if hasKey(m, "stock_bajo") {
			p.LowStock = toBool(m["stock_bajo"])
		} else {
			p.LowStock = p.Stock.LessThanOrEqual(p.MinStock)
		}
		products = append(products, p)
	}
	return products
}

func adaptCategories(v any) []report.Category {
	categories := []report.Category{}
	for _, m := range asMaps(v) {
		c := report.Category{
			ID:       toString(m["id_categoria"]),
			Name:     toString(m["nombre"]),
			Products: adaptProducts(m["productos"]),
		}
		if summary := asMap(m["resumen"]); summary != nil {
			c.Summary = report.CategorySummary{
				ProductCount:    toInt(summary["cantidad_productos"]),
				LowStockCount:   toInt(summary["productos_stock_bajo"]),
				TotalStock:      toDecimal(summary["stock_total"]),
				TotalStockValue: toDecimal(summary["valor_total"]),
				AverageValue:    toDecimal(summary["valor_promedio"]),
			}
		} else {
			c.Summary = report.Summarize(c.Products)
		}
		categories = append(categories, c)
	}
	return categories
}

// groupByCategory derives categories from products in first-seen order
func groupByCategory(products []report.Product) []report.Category {
	categories := []report.Category{}
	index := make(map[string]int)
	for _, p := range products {
		key := p.CategoryID
		if key == "" {
			key = p.Category
		}
		i, ok := index[key]
		if !ok {
			i = len(categories)
			index[key] = i
			categories = append(categories, report.Category{ID: p.CategoryID, Name: p.Category})
		}
		categories[i].Products = append(categories[i].Products, p)
	}
	for i := range categories {
		categories[i].Summary = report.Summarize(categories[i].Products)
	}
	return categories
}

func adaptCustomers(_ *Adapter, raw map[string]any) report.NormalizedReport {
	r := &report.CustomerReport{
		Customers: []report.Customer{},
		Extra:     extraKeys(raw, "clientes"),
	}
	for _, m := range asMaps(raw["clientes"]) {
		r.Customers = append(r.Customers, report.Customer{
			ID:            toString(m["id_cliente"]),
			Name:          toString(m["nombre"]),
			Document:      toString(m["documento"]),
			Email:         toString(m["email"]),
			Phone:         toString(m["telefono"]),
			PurchaseCount: toInt(m["cantidad_compras"]),
			TotalSpent:    toDecimal(m["total_compras"]),
			LastPurchase:  toTime(m["ultima_compra"]),
		})
	}
	return r
}

func adaptCashRegister(_ *Adapter, raw map[string]any) report.NormalizedReport {
	r := &report.CashRegisterReport{
		Sessions: []report.CashSession{},
		Extra:    extraKeys(raw, "sesiones", "totales"),
	}
	for _, m := range asMaps(raw["sesiones"]) {
		s := report.CashSession{
			ID:            toString(m["id_sesion"]),
			Register:      toString(m["caja"]),
			User:          toString(m["usuario"]),
			OpenedAt:      toTime(m["fecha_apertura"]),
			ClosedAt:      toTime(m["fecha_cierre"]),
			Status:        toString(m["estado"]),
			OpeningAmount: toDecimal(m["monto_apertura"]),
			ClosingAmount: toDecimal(m["monto_cierre"]),
			CashTotal:     toDecimal(m["total_efectivo"]),
			QRTotal:       toDecimal(m["total_qr"]),
			CardTotal:     toDecimal(m["total_tarjeta"]),
			Difference:    toDecimal(m["diferencia"]),
			Movements:     []report.CashMovement{},
		}
		for _, mv := range asMaps(m["movimientos"]) {
			s.Movements = append(s.Movements, report.CashMovement{
				ID:            toString(mv["id_movimiento"]),
				Date:          toTime(mv["fecha"]),
				Type:          toString(mv["tipo"]),
				PaymentMethod: toString(mv["metodo_pago"]),
				Description:   toString(mv["descripcion"]),
				Amount:        toDecimal(mv["monto"]),
			})
		}
		r.Sessions = append(r.Sessions, s)
	}
	if totals := asMap(raw["totales"]); totals != nil {
		r.Aggregate = &report.CashAggregate{
			OpeningTotal: toDecimal(totals["total_apertura"]),
			ClosingTotal: toDecimal(totals["total_cierre"]),
			CashTotal:    toDecimal(totals["total_efectivo"]),
			QRTotal:      toDecimal(totals["total_qr"]),
			CardTotal:    toDecimal(totals["total_tarjeta"]),
		}
	}
	return r
}

func adaptStockMovements(_ *Adapter, raw map[string]any) report.NormalizedReport {
	r := &report.StockMovementReport{
		Movements: adaptMovements(raw["movimientos"]),
		Extra:     extraKeys(raw, "movimientos", "por_caja"),
	}
	if hasKey(raw, "por_caja") {
		r.ByRegister = []report.RegisterMovementGroup{}
		for _, m := range asMaps(raw["por_caja"]) {
			r.ByRegister = append(r.ByRegister, report.RegisterMovementGroup{
				RegisterID: toString(m["id_caja"]),
				Register:   toString(m["caja"]),
				Movements:  adaptMovements(m["movimientos"]),
			})
		}
	} else {
		r.ByRegister = groupByRegister(r.Movements)
	}
	return r
}

func adaptMovements(v any) []report.Movement {
	movements := []report.Movement{}
	for _, m := range asMaps(v) {
		movements = append(movements, report.Movement{
			ID:            toString(m["id_movimiento"]),
			Date:          toTime(m["fecha"]),
			Product:       toString(m["producto"]),
			Type:          toString(m["tipo"]),
			Quantity:      toDecimal(m["cantidad"]),
			PreviousStock: toDecimal(m["stock_anterior"]),
			NewStock:      toDecimal(m["stock_nuevo"]),
			Reason:        toString(m["motivo"]),
			User:          toString(m["usuario"]),
			RegisterID:    toString(m["id_caja"]),
			Register:      toString(m["caja"]),
		})
	}
	return movements
}

// groupByRegister derives per-register groups in first-seen order
func groupByRegister(movements []report.Movement) []report.RegisterMovementGroup {
	groups := []report.RegisterMovementGroup{}
	index := make(map[string]int)
	for _, m := range movements {
		i, ok := index[m.RegisterID]
		if !ok {
			i = len(groups)
			index[m.RegisterID] = i
			name := m.Register
			if name == "" {
				name = UnassignedRegister
			}
			groups = append(groups, report.RegisterMovementGroup{RegisterID: m.RegisterID, Register: name})
		}
		groups[i].Movements = append(groups[i].Movements, m)
	}
	return groups
}
