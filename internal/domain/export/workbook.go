package export

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column width bounds, in Excel character units
const (
	MinColumnWidth = 10.0
	MaxColumnWidth = 60.0
	columnPadding  = 2
)

// MaxSheetNameLength is the Excel limit on sheet names
const MaxSheetNameLength = 31

// Cell is a spreadsheet value. Numeric cells are written as numbers and
// keep Text for width calculation.
type Cell struct {
	Text      string
	Number    float64
	IsNumeric bool
}

// TextCell creates a text cell
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// NumberCell creates a numeric cell with the given display text
func NumberCell(n float64, text string) Cell {
	return Cell{Text: text, Number: n, IsNumeric: true}
}

// Value returns the value to write into the sheet
func (c Cell) Value() any {
	if c.IsNumeric {
		return c.Number
	}
	return c.Text
}

// TotalEntry is one line of the key-value totals block
type TotalEntry struct {
	Label string
	Value Cell
}

// Sheet is one worksheet: a header row, data rows, a blank separator and a
// totals block.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]Cell
	Totals  []TotalEntry
}

// AddRow appends a data row
func (s *Sheet) AddRow(cells ...Cell) {
	s.Rows = append(s.Rows, cells)
}

// AddTotal appends a line to the totals block
func (s *Sheet) AddTotal(label string, value Cell) {
	s.Totals = append(s.Totals, TotalEntry{Label: label, Value: value})
}

// ColumnWidths returns one width per column: the longest text in the column
// plus padding, never below MinColumnWidth nor above MaxColumnWidth.
func (s *Sheet) ColumnWidths() []float64 {
	n := len(s.Headers)
	for _, row := range s.Rows {
		n = max(n, len(row))
	}
	if len(s.Totals) > 0 {
		n = max(n, 2)
	}

	longest := make([]int, n)
	measure := func(col int, text string) {
		longest[col] = max(longest[col], utf8.RuneCountInString(text))
	}
	for i, h := range s.Headers {
		measure(i, h)
	}
	for _, row := range s.Rows {
		for i, c := range row {
			measure(i, c.Text)
		}
	}
	for _, t := range s.Totals {
		measure(0, t.Label)
		measure(1, t.Value.Text)
	}

	widths := make([]float64, n)
	for i, l := range longest {
		widths[i] = min(max(float64(l+columnPadding), MinColumnWidth), MaxColumnWidth)
	}
	return widths
}

// Workbook is an ordered set of uniquely named sheets
type Workbook struct {
	Sheets []*Sheet
}

// AddSheet appends a sheet. The name is sanitized and made unique.
func (w *Workbook) AddSheet(name string, headers []string) *Sheet {
	sheet := &Sheet{
		Name:    w.uniqueName(SanitizeSheetName(name)),
		Headers: headers,
	}
	w.Sheets = append(w.Sheets, sheet)
	return sheet
}

// SheetNames returns the sheet names in order
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

func (w *Workbook) uniqueName(name string) string {
	candidate := name
	for i := 2; w.hasSheet(candidate); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, MaxSheetNameLength-len(suffix)) + suffix
	}
	return candidate
}

func (w *Workbook) hasSheet(name string) bool {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

var sheetNameReplacer = strings.NewReplacer(
	"[", "(", "]", ")", ":", "-", "*", "-", "?", "", "/", "-", "\\", "-",
)

// SanitizeSheetName removes characters Excel rejects and enforces the length limit
func SanitizeSheetName(name string) string {
	cleaned := strings.TrimSpace(sheetNameReplacer.Replace(name))
	cleaned = strings.Trim(cleaned, "'")
	if cleaned == "" {
		cleaned = "Sheet"
	}
	return truncateRunes(cleaned, MaxSheetNameLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
