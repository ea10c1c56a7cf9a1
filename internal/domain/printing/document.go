package printing

import (
	"fmt"
	"time"

	"github.com/erp/pos-reports/internal/domain/shared"
)

// FooterFormat is the page footer stamped on every page
const FooterFormat = "Page %d of %d"

// PageFooter returns the footer text for page of total
func PageFooter(page, total int) string {
	return fmt.Sprintf(FooterFormat, page, total)
}

// Align is the horizontal alignment of a table column
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// KeyValue is a labelled value in a header or summary block
type KeyValue struct {
	Label string
	Value string
}

// Column describes a table column. Weight is the column's share of the
// available width relative to the other columns.
type Column struct {
	Header string
	Weight float64
	Align  Align
}

// Table is a tabular block of pre-formatted cells
type Table struct {
	Columns []Column
	Rows    [][]string
	// Totals is an optional trailing row with one cell per column
	Totals []string
	// AvoidRowSplit keeps each row on a single page
	AvoidRowSplit bool
}

// Section is a logical group in a document: a heading, an optional summary
// block and an optional table.
type Section struct {
	Heading string
	Summary []KeyValue
	Table   *Table
}

// Document is the layout of a PDF report
type Document struct {
	Title       string
	GeneratedAt time.Time
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
	// Meta lines are printed under the title (branch, period, generation time)
	Meta     []KeyValue
	Sections []Section
}

// NewDocument creates an A4 document with default margins
func NewDocument(title string, orientation Orientation, generatedAt time.Time) *Document {
	return &Document{
		Title:       title,
		GeneratedAt: generatedAt,
		PaperSize:   PaperSizeA4,
		Orientation: orientation,
		Margins:     DefaultMargins(),
	}
}

// AddMeta appends a header line
func (d *Document) AddMeta(label, value string) {
	d.Meta = append(d.Meta, KeyValue{Label: label, Value: value})
}

// AddSection appends a section
func (d *Document) AddSection(s Section) {
	d.Sections = append(d.Sections, s)
}

// Tables returns every table in section order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, s := range d.Sections {
		if s.Table != nil {
			tables = append(tables, s.Table)
		}
	}
	return tables
}

// Validate checks that the document can be laid out
func (d *Document) Validate() error {
	if d.Title == "" {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document title is required")
	}
	if !d.PaperSize.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT", fmt.Sprintf("Invalid paper size %q", d.PaperSize))
	}
	if !d.Orientation.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT", fmt.Sprintf("Invalid orientation %q", d.Orientation))
	}
	for i, s := range d.Sections {
		if s.Table == nil {
			continue
		}
		if err := s.Table.Validate(); err != nil {
			return shared.NewDomainError("INVALID_DOCUMENT", fmt.Sprintf("section %d: %s", i+1, err.Error()))
		}
	}
	return nil
}

// Validate checks that every row matches the column count
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return shared.NewDomainError("INVALID_TABLE", "Table has no columns")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return shared.NewDomainError("INVALID_TABLE",
				fmt.Sprintf("row %d has %d cells, expected %d", i+1, len(row), len(t.Columns)))
		}
	}
	if t.Totals != nil && len(t.Totals) != len(t.Columns) {
		return shared.NewDomainError("INVALID_TABLE",
			fmt.Sprintf("totals row has %d cells, expected %d", len(t.Totals), len(t.Columns)))
	}
	return nil
}

// TotalWeight returns the sum of the column weights, treating unset weights as 1
func (t *Table) TotalWeight() float64 {
	var total float64
	for _, c := range t.Columns {
		total += c.EffectiveWeight()
	}
	return total
}

// EffectiveWeight returns Weight, or 1 when unset
func (c Column) EffectiveWeight() float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}
