package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one row of the inventory report
type Product struct {
	ID         string          `json:"id_producto"`
	Code       string          `json:"codigo"`
	Name       string          `json:"nombre"`
	Category   string          `json:"categoria"`
	CategoryID string          `json:"id_categoria"`
	Price      decimal.Decimal `json:"precio"`
	Cost       decimal.Decimal `json:"costo"`
	Stock      decimal.Decimal `json:"stock"`
	MinStock   decimal.Decimal `json:"stock_minimo"`
	StockValue decimal.Decimal `json:"valor_stock"`
	LowStock   bool            `json:"stock_bajo"`
}

// CategorySummary aggregates the products of one category
type CategorySummary struct {
	ProductCount    int64           `json:"cantidad_productos"`
	LowStockCount   int64           `json:"productos_stock_bajo"`
	TotalStock      decimal.Decimal `json:"stock_total"`
	TotalStockValue decimal.Decimal `json:"valor_total"`
	AverageValue    decimal.Decimal `json:"valor_promedio"`
}

// Category groups inventory products
type Category struct {
	ID       string          `json:"id_categoria"`
	Name     string          `json:"nombre"`
	Products []Product       `json:"productos"`
	Summary  CategorySummary `json:"resumen"`
}

// InventoryReport is the normalized products payload
type InventoryReport struct {
	Products            []Product      `json:"productos"`
	TotalCount          int64          `json:"total_productos"`
	Categories          []Category     `json:"categorias"`
	CategoryFilterLabel string         `json:"filtro_categoria,omitempty"`
	GeneratedAt         time.Time      `json:"fecha_generacion"`
	Extra               map[string]any `json:"-"`
}

// ReportType implements NormalizedReport
func (r *InventoryReport) ReportType() Type { return TypeInventory }

// IsEmpty implements NormalizedReport
func (r *InventoryReport) IsEmpty(subtype Subtype) bool {
	switch subtype {
	case SubtypeCategories:
		return len(r.Categories) == 0
	case SubtypeLowStock:
		return len(r.LowStockProducts()) == 0
	default:
		return len(r.Products) == 0
	}
}

// LowStockProducts returns the products flagged as low stock
func (r *InventoryReport) LowStockProducts() []Product {
	var out []Product
	for _, p := range r.Products {
		if p.LowStock {
			out = append(out, p)
		}
	}
	return out
}

// Summarize computes the summary block for a set of products
func Summarize(products []Product) CategorySummary {
	s := CategorySummary{
		ProductCount:    int64(len(products)),
		TotalStock:      decimal.Zero,
		TotalStockValue: decimal.Zero,
		AverageValue:    decimal.Zero,
	}
	for _, p := range products {
		if p.LowStock {
			s.LowStockCount++
		}
		s.TotalStock = s.TotalStock.Add(p.Stock)
		s.TotalStockValue = s.TotalStockValue.Add(p.StockValue)
	}
	if s.ProductCount > 0 {
		s.AverageValue = s.TotalStockValue.Div(decimal.NewFromInt(s.ProductCount)).Round(2)
	}
	return s
}

// MarshalJSON includes pass-through keys
func (r InventoryReport) MarshalJSON() ([]byte, error) {
	type alias InventoryReport
	return marshalWithExtra(alias(r), r.Extra)
}
