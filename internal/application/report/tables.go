package report

import (
	"maps"
	"slices"
	"time"

	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/shopspring/decimal"
)

type valueKind int

const (
	kindText valueKind = iota
	kindMoney
	kindQuantity
	kindCount
)

// value is a table cell before it is committed to a display, a document or a sheet
type value struct {
	text string
	dec  decimal.Decimal
	kind valueKind
}

func (v value) numeric() bool {
	return v.kind != kindText
}

func textValue(s string) value { return value{text: orDash(s), kind: kindText} }

func dateValue(t time.Time) value { return value{text: FormatDate(t), kind: kindText} }

func dateTimeValue(t time.Time) value { return value{text: FormatDateTime(t), kind: kindText} }

func labelValue(s string) value { return value{text: FormatLabel(s), kind: kindText} }

func moneyValue(d decimal.Decimal) value { return value{text: FormatMoney(d), dec: d, kind: kindMoney} }

func quantityValue(d decimal.Decimal) value {
	return value{text: FormatQuantity(d), dec: d, kind: kindQuantity}
}

func countValue(n int64) value {
	return value{text: FormatCount(n), dec: decimal.NewFromInt(n), kind: kindCount}
}

func sumValues(kind valueKind, values []value) value {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.dec)
	}
	switch kind {
	case kindMoney:
		return moneyValue(total)
	case kindCount:
		return countValue(total.IntPart())
	default:
		return quantityValue(total)
	}
}

// column describes one column of a report table. Summed columns get a total
// in the trailing totals row.
type column struct {
	header string
	weight float64
	kind   valueKind
	summed bool
}

// kv is a labelled summary figure
type kv struct {
	label string
	value value
}

// table is the per-type tabular listing shared by the view, the document and
// the workbook.
type table struct {
	columns []column
	rows    [][]value
}

func (t table) headers() []string {
	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = c.header
	}
	return headers
}

func (t table) textRows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		texts := make([]string, len(row))
		for j, v := range row {
			texts[j] = v.text
		}
		rows[i] = texts
	}
	return rows
}

// totals returns the trailing totals row, or nil when no column is summed
func (t table) totals() []value {
	var summed bool
	for _, c := range t.columns {
		summed = summed || c.summed
	}
	if !summed {
		return nil
	}
	out := make([]value, len(t.columns))
	for i, c := range t.columns {
		switch {
		case c.summed:
			values := make([]value, 0, len(t.rows))
			for _, row := range t.rows {
				values = append(values, row[i])
			}
			out[i] = sumValues(c.kind, values)
		case i == 0:
			out[i] = value{text: "Total"}
		default:
			out[i] = value{}
		}
	}
	return out
}

func totalTexts(values []value) []string {
	if values == nil {
		return nil
	}
	texts := make([]string, len(values))
	for i, v := range values {
		texts[i] = v.text
	}
	return texts
}

func salesTable(sales []report.Sale) table {
	t := table{columns: []column{
		{header: "Date", weight: 1.3},
		{header: "Sale #", weight: 0.8},
		{header: "Customer", weight: 1.8},
		{header: "User", weight: 1.2},
		{header: "Payment method", weight: 1.3},
		{header: "Items", weight: 0.8, kind: kindQuantity, summed: true},
		{header: "Total", weight: 1.2, kind: kindMoney, summed: true},
	}}
	for _, s := range sales {
		t.rows = append(t.rows, []value{
			dateTimeValue(s.Date),
			textValue(s.ID),
			textValue(s.Customer),
			textValue(s.User),
			labelValue(s.PaymentMethod),
			quantityValue(s.ItemCount),
			moneyValue(s.Total),
		})
	}
	return t
}

func productSalesTable(products []report.ProductSale) table {
	t := table{columns: []column{
		{header: "Code", weight: 1},
		{header: "Product", weight: 2.2},
		{header: "Category", weight: 1.4},
		{header: "Quantity sold", weight: 1.1, kind: kindQuantity, summed: true},
		{header: "Total sold", weight: 1.2, kind: kindMoney, summed: true},
	}}
	for _, p := range products {
		t.rows = append(t.rows, []value{
			textValue(p.Code),
			textValue(p.Name),
			textValue(p.Category),
			quantityValue(p.QuantitySold),
			moneyValue(p.TotalSold),
		})
	}
	return t
}

func productsTable(products []report.Product) table {
	t := table{columns: []column{
		{header: "Code", weight: 1},
		{header: "Product", weight: 2.2},
		{header: "Category", weight: 1.4},
		{header: "Price", weight: 1, kind: kindMoney},
		{header: "Cost", weight: 1, kind: kindMoney},
		{header: "Stock", weight: 0.8, kind: kindQuantity, summed: true},
		{header: "Min. stock", weight: 0.9, kind: kindQuantity},
		{header: "Stock value", weight: 1.2, kind: kindMoney, summed: true},
	}}
	for _, p := range products {
		t.rows = append(t.rows, []value{
			textValue(p.Code),
			textValue(p.Name),
			textValue(p.Category),
			moneyValue(p.Price),
			moneyValue(p.Cost),
			quantityValue(p.Stock),
			quantityValue(p.MinStock),
			moneyValue(p.StockValue),
		})
	}
	return t
}

func customersTable(customers []report.Customer) table {
	t := table{columns: []column{
		{header: "Name", weight: 1.8},
		{header: "Document", weight: 1.1},
		{header: "Email", weight: 1.8},
		{header: "Phone", weight: 1.1},
		{header: "Purchases", weight: 0.9, kind: kindCount, summed: true},
		{header: "Total spent", weight: 1.2, kind: kindMoney, summed: true},
		{header: "Last purchase", weight: 1.1},
	}}
	for _, c := range customers {
		t.rows = append(t.rows, []value{
			textValue(c.Name),
			textValue(c.Document),
			textValue(c.Email),
			textValue(c.Phone),
			countValue(c.PurchaseCount),
			moneyValue(c.TotalSpent),
			dateValue(c.LastPurchase),
		})
	}
	return t
}

func sessionsTable(sessions []report.CashSession) table {
	t := table{columns: []column{
		{header: "Register", weight: 1.1},
		{header: "User", weight: 1.2},
		{header: "Opened", weight: 1.3},
		{header: "Closed", weight: 1.3},
		{header: "Status", weight: 0.9},
		{header: "Opening", weight: 1, kind: kindMoney, summed: true},
		{header: "Closing", weight: 1, kind: kindMoney, summed: true},
		{header: "Cash", weight: 1, kind: kindMoney, summed: true},
		{header: "QR", weight: 1, kind: kindMoney, summed: true},
		{header: "Card", weight: 1, kind: kindMoney, summed: true},
		{header: "Difference", weight: 1, kind: kindMoney, summed: true},
	}}
	for _, s := range sessions {
		t.rows = append(t.rows, []value{
			textValue(s.Register),
			textValue(s.User),
			dateTimeValue(s.OpenedAt),
			dateTimeValue(s.ClosedAt),
			labelValue(s.Status),
			moneyValue(s.OpeningAmount),
			moneyValue(s.ClosingAmount),
			moneyValue(s.CashTotal),
			moneyValue(s.QRTotal),
			moneyValue(s.CardTotal),
			moneyValue(s.Difference),
		})
	}
	return t
}

func cashMovementsTable(movements []report.CashMovement) table {
	t := table{columns: []column{
		{header: "Date", weight: 1.3},
		{header: "Type", weight: 1},
		{header: "Payment method", weight: 1.2},
		{header: "Description", weight: 2.5},
		{header: "Amount", weight: 1.1, kind: kindMoney, summed: true},
	}}
	for _, m := range movements {
		t.rows = append(t.rows, []value{
			dateTimeValue(m.Date),
			labelValue(m.Type),
			labelValue(m.PaymentMethod),
			textValue(m.Description),
			moneyValue(m.Amount),
		})
	}
	return t
}

func movementsTable(movements []report.Movement) table {
	t := table{columns: []column{
		{header: "Date", weight: 1.3},
		{header: "Product", weight: 2},
		{header: "Type", weight: 1},
		{header: "Quantity", weight: 0.9, kind: kindQuantity, summed: true},
		{header: "Previous stock", weight: 1, kind: kindQuantity},
		{header: "New stock", weight: 1, kind: kindQuantity},
		{header: "Reason", weight: 1.8},
		{header: "User", weight: 1.1},
		{header: "Register", weight: 1},
	}}
	for _, m := range movements {
		t.rows = append(t.rows, []value{
			dateTimeValue(m.Date),
			textValue(m.Product),
			labelValue(m.Type),
			quantityValue(m.Quantity),
			quantityValue(m.PreviousStock),
			quantityValue(m.NewStock),
			textValue(m.Reason),
			textValue(m.User),
			textValue(m.Register),
		})
	}
	return t
}

func salesSummary(s report.SalesSummary) []kv {
	figures := []kv{
		{"Total sales", moneyValue(s.TotalAmount)},
		{"Number of sales", countValue(s.Count)},
		{"Average sale", moneyValue(s.AverageAmount)},
		{"Items sold", quantityValue(s.TotalItems)},
	}
	for _, method := range slices.Sorted(maps.Keys(s.ByPaymentMethod)) {
		figures = append(figures, kv{FormatLabel(method), moneyValue(s.ByPaymentMethod[method])})
	}
	return figures
}

func categorySummary(s report.CategorySummary) []kv {
	return []kv{
		{"Products", countValue(s.ProductCount)},
		{"Low stock", countValue(s.LowStockCount)},
		{"Total stock", quantityValue(s.TotalStock)},
		{"Total stock value", moneyValue(s.TotalStockValue)},
		{"Average value", moneyValue(s.AverageValue)},
	}
}

func inventorySummary(r *report.InventoryReport) []kv {
	s := report.Summarize(r.Products)
	figures := []kv{
		{"Total products", countValue(r.TotalCount)},
		{"Categories", countValue(int64(len(r.Categories)))},
		{"Low stock", countValue(s.LowStockCount)},
		{"Total stock", quantityValue(s.TotalStock)},
		{"Total stock value", moneyValue(s.TotalStockValue)},
	}
	if r.CategoryFilterLabel != "" {
		figures = append(figures, kv{"Category", textValue(r.CategoryFilterLabel)})
	}
	return figures
}

func customersSummary(r *report.CustomerReport) []kv {
	var purchases int64
	spent := decimal.Zero
	for _, c := range r.Customers {
		purchases += c.PurchaseCount
		spent = spent.Add(c.TotalSpent)
	}
	return []kv{
		{"Customers", countValue(int64(len(r.Customers)))},
		{"Purchases", countValue(purchases)},
		{"Total spent", moneyValue(spent)},
	}
}

func cashSummary(r *report.CashRegisterReport) []kv {
	totals := r.Totals()
	return []kv{
		{"Sessions", countValue(int64(len(r.Sessions)))},
		{"Opening total", moneyValue(totals.OpeningTotal)},
		{"Closing total", moneyValue(totals.ClosingTotal)},
		{"Cash", moneyValue(totals.CashTotal)},
		{"QR", moneyValue(totals.QRTotal)},
		{"Card", moneyValue(totals.CardTotal)},
	}
}

func sessionSummary(s report.CashSession) []kv {
	return []kv{
		{"Opening", moneyValue(s.OpeningAmount)},
		{"Closing", moneyValue(s.ClosingAmount)},
		{"Cash", moneyValue(s.CashTotal)},
		{"QR", moneyValue(s.QRTotal)},
		{"Card", moneyValue(s.CardTotal)},
		{"Difference", moneyValue(s.Difference)},
	}
}

func movementsSummary(movements []report.Movement) []kv {
	in, out := decimal.Zero, decimal.Zero
	for _, m := range movements {
		if m.Quantity.IsNegative() {
			out = out.Add(m.Quantity.Abs())
		} else {
			in = in.Add(m.Quantity)
		}
	}
	return []kv{
		{"Movements", countValue(int64(len(movements)))},
		{"Units in", quantityValue(in)},
		{"Units out", quantityValue(out)},
	}
}

func sessionTitle(s report.CashSession) string {
	name := orDash(s.Register)
	if s.OpenedAt.IsZero() {
		return name
	}
	return name + " " + FormatDate(s.OpenedAt)
}

func registerTitle(g report.RegisterMovementGroup) string {
	if g.Register != "" {
		return g.Register
	}
	if g.RegisterID != "" {
		return "Register " + g.RegisterID
	}
	return UnassignedRegister
}
