package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashMovement is a cash in/out entry recorded during a session
type CashMovement struct {
	ID            string          `json:"id_movimiento"`
	Date          time.Time       `json:"fecha"`
	Type          string          `json:"tipo"`
	PaymentMethod string          `json:"metodo_pago"`
	Description   string          `json:"descripcion"`
	Amount        decimal.Decimal `json:"monto"`
}

// CashSession is one opening-to-closing period of a cash register
type CashSession struct {
	ID            string          `json:"id_sesion"`
	Register      string          `json:"caja"`
	User          string          `json:"usuario"`
	OpenedAt      time.Time       `json:"fecha_apertura"`
	ClosedAt      time.Time       `json:"fecha_cierre"`
	Status        string          `json:"estado"`
	OpeningAmount decimal.Decimal `json:"monto_apertura"`
	ClosingAmount decimal.Decimal `json:"monto_cierre"`
	CashTotal     decimal.Decimal `json:"total_efectivo"`
	QRTotal       decimal.Decimal `json:"total_qr"`
	CardTotal     decimal.Decimal `json:"total_tarjeta"`
	Difference    decimal.Decimal `json:"diferencia"`
	Movements     []CashMovement  `json:"movimientos"`
}

// CashAggregate sums the amounts of all sessions in a report
type CashAggregate struct {
	OpeningTotal decimal.Decimal `json:"total_apertura"`
	ClosingTotal decimal.Decimal `json:"total_cierre"`
	CashTotal    decimal.Decimal `json:"total_efectivo"`
	QRTotal      decimal.Decimal `json:"total_qr"`
	CardTotal    decimal.Decimal `json:"total_tarjeta"`
}

// CashRegisterReport is the normalized cash register payload
type CashRegisterReport struct {
	Sessions []CashSession `json:"sesiones"`
	// Aggregate is nil when the report service did not send totals
	Aggregate *CashAggregate `json:"totales,omitempty"`
	Extra     map[string]any `json:"-"`
}

// ReportType implements NormalizedReport
func (r *CashRegisterReport) ReportType() Type { return TypeCashRegister }

// IsEmpty implements NormalizedReport
func (r *CashRegisterReport) IsEmpty(Subtype) bool {
	return len(r.Sessions) == 0
}

// Totals returns the server aggregate, or the sum of the sessions when absent
func (r *CashRegisterReport) Totals() CashAggregate {
	if r.Aggregate != nil {
		return *r.Aggregate
	}
	agg := CashAggregate{
		OpeningTotal: decimal.Zero,
		ClosingTotal: decimal.Zero,
		CashTotal:    decimal.Zero,
		QRTotal:      decimal.Zero,
		CardTotal:    decimal.Zero,
	}
	for _, s := range r.Sessions {
		agg.OpeningTotal = agg.OpeningTotal.Add(s.OpeningAmount)
		agg.ClosingTotal = agg.ClosingTotal.Add(s.ClosingAmount)
		agg.CashTotal = agg.CashTotal.Add(s.CashTotal)
		agg.QRTotal = agg.QRTotal.Add(s.QRTotal)
		agg.CardTotal = agg.CardTotal.Add(s.CardTotal)
	}
	return agg
}

// MarshalJSON includes pass-through keys
func (r CashRegisterReport) MarshalJSON() ([]byte, error) {
	type alias CashRegisterReport
	return marshalWithExtra(alias(r), r.Extra)
}
