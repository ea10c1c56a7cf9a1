package report

import (
	"github.com/erp/pos-reports/internal/domain/export"
	"github.com/erp/pos-reports/internal/domain/report"
)

// Sheet names used across workbooks
const (
	SummarySheetName = "Summary"
	DataSheetName    = "Data"
)

type workbookLayout func(r report.NormalizedReport, subtype report.Subtype, wb *export.Workbook)

var workbookLayouts = map[report.Type]workbookLayout{
	report.TypeSales:          layoutSalesWorkbook,
	report.TypeInventory:      layoutInventoryWorkbook,
	report.TypeCustomers:      layoutCustomersWorkbook,
	report.TypeCashRegister:   layoutCashRegisterWorkbook,
	report.TypeStockMovements: layoutStockMovementsWorkbook,
}

// BuildWorkbook lays out a normalized report as a workbook. Grouped reports
// get one sheet per group plus a Summary sheet; flat reports get a single
// Data sheet.
func BuildWorkbook(r report.NormalizedReport, subtype report.Subtype) *export.Workbook {
	wb := &export.Workbook{}
	if layout, ok := workbookLayouts[r.ReportType()]; ok {
		layout(r, subtype, wb)
	}
	return wb
}

func toCell(v value) export.Cell {
	if v.numeric() {
		return export.NumberCell(v.dec.InexactFloat64(), v.text)
	}
	return export.TextCell(v.text)
}

// addTableSheet writes the header, one row per record and the totals block
func addTableSheet(wb *export.Workbook, name string, t table, totals []kv) *export.Sheet {
	sheet := wb.AddSheet(name, t.headers())
	for _, row := range t.rows {
		cells := make([]export.Cell, len(row))
		for i, v := range row {
			cells[i] = toCell(v)
		}
		sheet.AddRow(cells...)
	}
	for _, f := range totals {
		sheet.AddTotal(f.label, toCell(f.value))
	}
	return sheet
}

func layoutSalesWorkbook(r report.NormalizedReport, subtype report.Subtype, wb *export.Workbook) {
	sales := r.(*report.SalesReport)
	if subtype == report.SubtypeByProduct {
		addTableSheet(wb, DataSheetName, productSalesTable(sales.Products), salesSummary(sales.Summary))
		return
	}
	addTableSheet(wb, DataSheetName, salesTable(sales.Sales), salesSummary(sales.Summary))
}

func layoutInventoryWorkbook(r report.NormalizedReport, subtype report.Subtype, wb *export.Workbook) {
	inv := r.(*report.InventoryReport)
	switch subtype {
	case report.SubtypeCategories:
		summary := table{columns: []column{
			{header: "Category"},
			{header: "Products", kind: kindCount},
			{header: "Low stock", kind: kindCount},
			{header: "Total stock", kind: kindQuantity},
			{header: "Total stock value", kind: kindMoney},
			{header: "Average value", kind: kindMoney},
		}}
		for _, c := range inv.Categories {
			summary.rows = append(summary.rows, []value{
				textValue(c.Name),
				countValue(c.Summary.ProductCount),
				countValue(c.Summary.LowStockCount),
				quantityValue(c.Summary.TotalStock),
				moneyValue(c.Summary.TotalStockValue),
				moneyValue(c.Summary.AverageValue),
			})
		}
		addTableSheet(wb, SummarySheetName, summary, inventorySummary(inv))
		for _, c := range inv.Categories {
			addTableSheet(wb, orDash(c.Name), productsTable(c.Products), categorySummary(c.Summary))
		}
	case report.SubtypeLowStock:
		low := inv.LowStockProducts()
		addTableSheet(wb, DataSheetName, productsTable(low), categorySummary(report.Summarize(low)))
	default:
		addTableSheet(wb, DataSheetName, productsTable(inv.Products), inventorySummary(inv))
	}
}

func layoutCustomersWorkbook(r report.NormalizedReport, _ report.Subtype, wb *export.Workbook) {
	customers := r.(*report.CustomerReport)
	addTableSheet(wb, DataSheetName, customersTable(customers.Customers), customersSummary(customers))
}

func layoutCashRegisterWorkbook(r report.NormalizedReport, subtype report.Subtype, wb *export.Workbook) {
	cash := r.(*report.CashRegisterReport)
	addTableSheet(wb, SummarySheetName, sessionsTable(cash.Sessions), cashSummary(cash))
	for _, s := range cash.Sessions {
		if subtype == report.SubtypeSummary || len(s.Movements) == 0 {
			addTableSheet(wb, sessionTitle(s), sessionsTable([]report.CashSession{s}), sessionSummary(s))
			continue
		}
		addTableSheet(wb, sessionTitle(s), cashMovementsTable(s.Movements), sessionSummary(s))
	}
}

func layoutStockMovementsWorkbook(r report.NormalizedReport, subtype report.Subtype, wb *export.Workbook) {
	mov := r.(*report.StockMovementReport)
	if subtype != report.SubtypeByRegister {
		addTableSheet(wb, DataSheetName, movementsTable(mov.Movements), movementsSummary(mov.Movements))
		return
	}

	summary := table{columns: []column{
		{header: "Register"},
		{header: "Movements", kind: kindCount},
		{header: "Quantity", kind: kindQuantity},
	}}
	for _, g := range mov.ByRegister {
		quantity := sumValues(kindQuantity, movementQuantities(g.Movements))
		summary.rows = append(summary.rows, []value{
			textValue(registerTitle(g)),
			countValue(int64(len(g.Movements))),
			quantity,
		})
	}
	addTableSheet(wb, SummarySheetName, summary, movementsSummary(mov.Movements))
	for _, g := range mov.ByRegister {
		addTableSheet(wb, registerTitle(g), movementsTable(g.Movements), movementsSummary(g.Movements))
	}
}

func movementQuantities(movements []report.Movement) []value {
	values := make([]value, len(movements))
	for i, m := range movements {
		values[i] = quantityValue(m.Quantity)
	}
	return values
}
