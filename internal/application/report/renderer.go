package report

import (
	"fmt"

	"github.com/erp/pos-reports/internal/domain/report"
)

// Card is a figure in a summary strip
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ViewSection is a titled table with an optional summary strip
type ViewSection struct {
	Title   string     `json:"title"`
	Cards   []Card     `json:"cards,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Totals  []string   `json:"totals,omitempty"`
}

// View is the display structure of a report
type View struct {
	Type     report.Type    `json:"type"`
	Subtype  report.Subtype `json:"subtype"`
	Title    string         `json:"title"`
	Empty    bool           `json:"empty"`
	Cards    []Card         `json:"cards"`
	Sections []ViewSection  `json:"sections"`
}

// ReportTitle returns "<type label> - <subtype label>"
func ReportTitle(t report.Type, subtype report.Subtype) string {
	return fmt.Sprintf("%s - %s", t.Label(), report.SubtypeLabel(t, subtype))
}

type renderFunc func(r report.NormalizedReport, subtype report.Subtype, v *View)

var viewRenderers = map[report.Type]renderFunc{
	report.TypeSales:          renderSales,
	report.TypeInventory:      renderInventory,
	report.TypeCustomers:      renderCustomers,
	report.TypeCashRegister:   renderCashRegister,
	report.TypeStockMovements: renderStockMovements,
}

// Render maps a normalized report to its display structure. A nil report or
// an empty primary collection yields a view flagged Empty.
func Render(r report.NormalizedReport, subtype report.Subtype) View {
	if r == nil {
		return View{Empty: true, Subtype: subtype, Cards: []Card{}, Sections: []ViewSection{}}
	}
	t := r.ReportType()
	v := View{
		Type:     t,
		Subtype:  subtype,
		Title:    ReportTitle(t, subtype),
		Empty:    r.IsEmpty(subtype),
		Cards:    []Card{},
		Sections: []ViewSection{},
	}
	if fn, ok := viewRenderers[t]; ok {
		fn(r, subtype, &v)
	}
	return v
}

func toCards(figures []kv) []Card {
	cards := make([]Card, len(figures))
	for i, f := range figures {
		cards[i] = Card{Label: f.label, Value: f.value.text}
	}
	return cards
}

func toViewSection(title string, t table) ViewSection {
	return ViewSection{
		Title:   title,
		Columns: t.headers(),
		Rows:    t.textRows(),
		Totals:  totalTexts(t.totals()),
	}
}

func renderSales(r report.NormalizedReport, subtype report.Subtype, v *View) {
	sales := r.(*report.SalesReport)
	v.Cards = toCards(salesSummary(sales.Summary))
	if subtype == report.SubtypeByProduct {
		v.Sections = append(v.Sections, toViewSection("Products sold", productSalesTable(sales.Products)))
		return
	}
	v.Sections = append(v.Sections, toViewSection("Sales", salesTable(sales.Sales)))
}

func renderInventory(r report.NormalizedReport, subtype report.Subtype, v *View) {
	inv := r.(*report.InventoryReport)
	v.Cards = toCards(inventorySummary(inv))
	switch subtype {
	case report.SubtypeCategories:
		for _, c := range inv.Categories {
			section := toViewSection(orDash(c.Name), productsTable(c.Products))
			section.Cards = toCards(categorySummary(c.Summary))
			v.Sections = append(v.Sections, section)
		}
	case report.SubtypeLowStock:
		v.Sections = append(v.Sections, toViewSection("Low stock products", productsTable(inv.LowStockProducts())))
	default:
		v.Sections = append(v.Sections, toViewSection("Products", productsTable(inv.Products)))
	}
}

func renderCustomers(r report.NormalizedReport, subtype report.Subtype, v *View) {
	customers := r.(*report.CustomerReport)
	v.Cards = toCards(customersSummary(customers))
	title := "Customers"
	if subtype == report.SubtypeFrequent {
		title = "Frequent customers"
	}
	v.Sections = append(v.Sections, toViewSection(title, customersTable(customers.Customers)))
}

func renderCashRegister(r report.NormalizedReport, subtype report.Subtype, v *View) {
	cash := r.(*report.CashRegisterReport)
	v.Cards = toCards(cashSummary(cash))
	v.Sections = append(v.Sections, toViewSection("Sessions", sessionsTable(cash.Sessions)))
	if subtype == report.SubtypeSummary {
		return
	}
	for _, s := range cash.Sessions {
		if len(s.Movements) == 0 {
			continue
		}
		section := toViewSection(sessionTitle(s), cashMovementsTable(s.Movements))
		section.Cards = toCards(sessionSummary(s))
		v.Sections = append(v.Sections, section)
	}
}

func renderStockMovements(r report.NormalizedReport, subtype report.Subtype, v *View) {
	mov := r.(*report.StockMovementReport)
	v.Cards = toCards(movementsSummary(mov.Movements))
	if subtype == report.SubtypeByRegister {
		for _, g := range mov.ByRegister {
			section := toViewSection(registerTitle(g), movementsTable(g.Movements))
			section.Cards = toCards(movementsSummary(g.Movements))
			v.Sections = append(v.Sections, section)
		}
		return
	}
	v.Sections = append(v.Sections, toViewSection("Movements", movementsTable(mov.Movements)))
}
