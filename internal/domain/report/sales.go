package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one row of the general sales report
type Sale struct {
	ID            string          `json:"id_venta"`
	Date          time.Time       `json:"fecha"`
	Customer      string          `json:"cliente"`
	User          string          `json:"usuario"`
	PaymentMethod string          `json:"metodo_pago"`
	ItemCount     decimal.Decimal `json:"cantidad_items"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"estado"`
}

// ProductSale is one row of the by-product sales report
type ProductSale struct {
	ProductID    string          `json:"id_producto"`
	Code         string          `json:"codigo"`
	Name         string          `json:"nombre"`
	Category     string          `json:"categoria"`
	QuantitySold decimal.Decimal `json:"cantidad_vendida"`
	TotalSold    decimal.Decimal `json:"total_vendido"`
}

// SalesSummary aggregates the sales of a period
type SalesSummary struct {
	TotalAmount     decimal.Decimal            `json:"total_ventas"`
	Count           int64                      `json:"cantidad_ventas"`
	AverageAmount   decimal.Decimal            `json:"promedio_venta"`
	TotalItems      decimal.Decimal            `json:"total_items"`
	ByPaymentMethod map[string]decimal.Decimal `json:"por_metodo_pago"`
}

// SalesReport is the normalized sales payload
type SalesReport struct {
	Sales    []Sale         `json:"ventas"`
	Products []ProductSale  `json:"productos"`
	Summary  SalesSummary   `json:"resumen"`
	Extra    map[string]any `json:"-"`
}

// ReportType implements NormalizedReport
func (r *SalesReport) ReportType() Type { return TypeSales }

// IsEmpty implements NormalizedReport
func (r *SalesReport) IsEmpty(subtype Subtype) bool {
	if subtype == SubtypeByProduct {
		return len(r.Products) == 0
	}
	return len(r.Sales) == 0
}

// MarshalJSON includes pass-through keys
func (r SalesReport) MarshalJSON() ([]byte, error) {
	type alias SalesReport
	return marshalWithExtra(alias(r), r.Extra)
}
