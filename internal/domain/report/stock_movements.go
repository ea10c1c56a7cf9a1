package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is one stock movement
type Movement struct {
	ID            string          `json:"id_movimiento"`
	Date          time.Time       `json:"fecha"`
	Product       string          `json:"producto"`
	Type          string          `json:"tipo"`
	Quantity      decimal.Decimal `json:"cantidad"`
	PreviousStock decimal.Decimal `json:"stock_anterior"`
	NewStock      decimal.Decimal `json:"stock_nuevo"`
	Reason        string          `json:"motivo"`
	User          string          `json:"usuario"`
	RegisterID    string          `json:"id_caja"`
	Register      string          `json:"caja"`
}

// RegisterMovementGroup holds the movements made through one cash register
type RegisterMovementGroup struct {
	RegisterID string     `json:"id_caja"`
	Register   string     `json:"caja"`
	Movements  []Movement `json:"movimientos"`
}

// StockMovementReport is the normalized stock movements payload
type StockMovementReport struct {
	Movements  []Movement              `json:"movimientos"`
	ByRegister []RegisterMovementGroup `json:"por_caja"`
	Extra      map[string]any          `json:"-"`
}

// ReportType implements NormalizedReport
func (r *StockMovementReport) ReportType() Type { return TypeStockMovements }

// IsEmpty implements NormalizedReport
func (r *StockMovementReport) IsEmpty(subtype Subtype) bool {
	if subtype == SubtypeByRegister {
		return len(r.ByRegister) == 0
	}
	return len(r.Movements) == 0
}

// MarshalJSON includes pass-through keys
func (r StockMovementReport) MarshalJSON() ([]byte, error) {
	type alias StockMovementReport
	return marshalWithExtra(alias(r), r.Extra)
}
