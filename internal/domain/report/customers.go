package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is one row of the customers report
type Customer struct {
	ID            string          `json:"id_cliente"`
	Name          string          `json:"nombre"`
	Document      string          `json:"documento"`
	Email         string          `json:"email"`
	Phone         string          `json:"telefono"`
	PurchaseCount int64           `json:"cantidad_compras"`
	TotalSpent    decimal.Decimal `json:"total_compras"`
	LastPurchase  time.Time       `json:"ultima_compra"`
}

// CustomerReport is the normalized customers payload
type CustomerReport struct {
	Customers []Customer     `json:"clientes"`
	Extra     map[string]any `json:"-"`
}

// ReportType implements NormalizedReport
func (r *CustomerReport) ReportType() Type { return TypeCustomers }

// IsEmpty implements NormalizedReport
func (r *CustomerReport) IsEmpty(Subtype) bool {
	return len(r.Customers) == 0
}

// MarshalJSON includes pass-through keys
func (r CustomerReport) MarshalJSON() ([]byte, error) {
	type alias CustomerReport
	return marshalWithExtra(alias(r), r.Extra)
}
