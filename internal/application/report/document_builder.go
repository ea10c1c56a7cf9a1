package report

import (
	"time"

	"github.com/erp/pos-reports/internal/domain/printing"
	"github.com/erp/pos-reports/internal/domain/report"
)

// ExportMeta describes the context an export was requested in. It is printed
// in document headers and never influences layout.
type ExportMeta struct {
	BranchName  string
	DateRange   report.DateRange
	GeneratedAt time.Time
}

type documentLayout func(r report.NormalizedReport, subtype report.Subtype, doc *printing.Document)

var documentLayouts = map[report.Type]documentLayout{
	report.TypeSales:          layoutSalesDocument,
	report.TypeInventory:      layoutInventoryDocument,
	report.TypeCustomers:      layoutCustomersDocument,
	report.TypeCashRegister:   layoutCashRegisterDocument,
	report.TypeStockMovements: layoutStockMovementsDocument,
}

// BuildDocument lays out a normalized report as a printable document.
// Cash register and stock movement reports are landscape and keep rows whole;
// inventory by category gets one section per category; everything else is a
// portrait table with a trailing totals row.
func BuildDocument(r report.NormalizedReport, subtype report.Subtype, meta ExportMeta) *printing.Document {
	t := r.ReportType()
	orientation := printing.OrientationPortrait
	if t.Landscape() {
		orientation = printing.OrientationLandscape
	}

	doc := printing.NewDocument(ReportTitle(t, subtype), orientation, meta.GeneratedAt)
	doc.AddMeta("Generated", FormatDateTime(meta.GeneratedAt))
	if meta.BranchName != "" {
		doc.AddMeta("Branch", meta.BranchName)
	}
	if period := formatPeriod(meta.DateRange); period != "" {
		doc.AddMeta("Period", period)
	}

	if layout, ok := documentLayouts[t]; ok {
		layout(r, subtype, doc)
	}
	return doc
}

func formatPeriod(r report.DateRange) string {
	switch {
	case r.Start != nil && r.End != nil:
		return FormatDate(*r.Start) + " - " + FormatDate(*r.End)
	case r.Start != nil:
		return "From " + FormatDate(*r.Start)
	case r.End != nil:
		return "Until " + FormatDate(*r.End)
	}
	return ""
}

func toKeyValues(figures []kv) []printing.KeyValue {
	out := make([]printing.KeyValue, len(figures))
	for i, f := range figures {
		out[i] = printing.KeyValue{Label: f.label, Value: f.value.text}
	}
	return out
}

func toDocumentTable(t table, withTotals, avoidRowSplit bool) *printing.Table {
	columns := make([]printing.Column, len(t.columns))
	for i, c := range t.columns {
		align := printing.AlignLeft
		if c.kind != kindText {
			align = printing.AlignRight
		}
		columns[i] = printing.Column{Header: c.header, Weight: c.weight, Align: align}
	}
	dt := &printing.Table{
		Columns:       columns,
		Rows:          t.textRows(),
		AvoidRowSplit: avoidRowSplit,
	}
	if withTotals {
		dt.Totals = totalTexts(t.totals())
	}
	return dt
}

func layoutSalesDocument(r report.NormalizedReport, subtype report.Subtype, doc *printing.Document) {
	sales := r.(*report.SalesReport)
	doc.AddSection(printing.Section{Heading: "Summary", Summary: toKeyValues(salesSummary(sales.Summary))})
	if subtype == report.SubtypeByProduct {
		doc.AddSection(printing.Section{Heading: "Products sold", Table: toDocumentTable(productSalesTable(sales.Products), true, false)})
		return
	}
	doc.AddSection(printing.Section{Heading: "Sales", Table: toDocumentTable(salesTable(sales.Sales), true, false)})
}

func layoutInventoryDocument(r report.NormalizedReport, subtype report.Subtype, doc *printing.Document) {
	inv := r.(*report.InventoryReport)
	doc.AddSection(printing.Section{Heading: "Summary", Summary: toKeyValues(inventorySummary(inv))})
	switch subtype {
	case report.SubtypeCategories:
		for _, c := range inv.Categories {
			doc.AddSection(printing.Section{
				Heading: orDash(c.Name),
				Summary: toKeyValues(categorySummary(c.Summary)),
				Table:   toDocumentTable(productsTable(c.Products), false, false),
			})
		}
	case report.SubtypeLowStock:
		doc.AddSection(printing.Section{Heading: "Low stock products", Table: toDocumentTable(productsTable(inv.LowStockProducts()), true, false)})
	default:
		doc.AddSection(printing.Section{Heading: "Products", Table: toDocumentTable(productsTable(inv.Products), true, false)})
	}
}

func layoutCustomersDocument(r report.NormalizedReport, _ report.Subtype, doc *printing.Document) {
	customers := r.(*report.CustomerReport)
	doc.AddSection(printing.Section{Heading: "Summary", Summary: toKeyValues(customersSummary(customers))})
	doc.AddSection(printing.Section{Heading: "Customers", Table: toDocumentTable(customersTable(customers.Customers), true, false)})
}

func layoutCashRegisterDocument(r report.NormalizedReport, subtype report.Subtype, doc *printing.Document) {
	cash := r.(*report.CashRegisterReport)
	doc.AddSection(printing.Section{Heading: "Summary", Summary: toKeyValues(cashSummary(cash))})
	doc.AddSection(printing.Section{Heading: "Sessions", Table: toDocumentTable(sessionsTable(cash.Sessions), true, true)})
	if subtype == report.SubtypeSummary {
		return
	}
	for _, s := range cash.Sessions {
		if len(s.Movements) == 0 {
			continue
		}
		doc.AddSection(printing.Section{
			Heading: sessionTitle(s),
			Summary: toKeyValues(sessionSummary(s)),
			Table:   toDocumentTable(cashMovementsTable(s.Movements), true, true),
		})
	}
}

func layoutStockMovementsDocument(r report.NormalizedReport, subtype report.Subtype, doc *printing.Document) {
	mov := r.(*report.StockMovementReport)
	doc.AddSection(printing.Section{Heading: "Summary", Summary: toKeyValues(movementsSummary(mov.Movements))})
	if subtype == report.SubtypeByRegister {
		for _, g := range mov.ByRegister {
			doc.AddSection(printing.Section{
				Heading: registerTitle(g),
				Summary: toKeyValues(movementsSummary(g.Movements)),
				Table:   toDocumentTable(movementsTable(g.Movements), true, true),
			})
		}
		return
	}
	doc.AddSection(printing.Section{Heading: "Movements", Table: toDocumentTable(movementsTable(mov.Movements), true, true)})
}
