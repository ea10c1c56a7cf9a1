package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	at := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "Report_ventas_general_05-03-2024.pdf", Filename("ventas", "general", FormatPDF, at))
	assert.Equal(t, "Report_ventas_general_05-03-2024.xlsx", Filename("ventas", "general", FormatXLSX, at))
}

func TestNewArtifact(t *testing.T) {
	at := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	a := NewArtifact("caja", "sesiones", FormatXLSX, []byte("PK"), at)

	assert.Equal(t, "Report_caja_sesiones_31-12-2024.xlsx", a.Filename)
	assert.Equal(t, MIMETypeXLSX, a.MIMEType)
	assert.Equal(t, 2, a.Size())
	assert.Empty(t, a.Location)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, MIMETypePDF, f.MIMEType())

	_, err = ParseFormat("csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Bebidas", "Bebidas"},
		{"Caja 1/Turno:Mañana", "Caja 1-Turno-Mañana"},
		{"[Lácteos]?", "(Lácteos)"},
		{"'quoted'", "quoted"},
		{"   ", "Sheet"},
		{strings.Repeat("a", 40), strings.Repeat("a", 31)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSheetName(tt.input))
		})
	}
}

func TestWorkbook_UniqueSheetNames(t *testing.T) {
	wb := &Workbook{}
	wb.AddSheet("Bebidas", nil)
	wb.AddSheet("bebidas", nil)
	wb.AddSheet("Bebidas", nil)
	long := strings.Repeat("x", 40)
	wb.AddSheet(long, nil)
	wb.AddSheet(long, nil)

	names := wb.SheetNames()
	assert.Equal(t, "Bebidas", names[0])
	assert.Equal(t, "bebidas (2)", names[1])
	assert.Equal(t, "Bebidas (3)", names[2])
	assert.Equal(t, strings.Repeat("x", 31), names[3])
	assert.Equal(t, strings.Repeat("x", 27)+" (2)", names[4])
	for _, n := range names {
		assert.LessOrEqual(t, len(n), MaxSheetNameLength)
	}
}

func TestSheet_ColumnWidths(t *testing.T) {
	sheet := &Sheet{Headers: []string{"ID", "Product", "Notes"}}
	sheet.AddRow(TextCell("1"), TextCell("Coca Cola 2L"), TextCell(strings.Repeat("n", 100)))
	sheet.AddRow(NumberCell(2, "2"), TextCell("Pan"), TextCell(""))
	sheet.AddTotal("Total products in category", NumberCell(2, "2"))

	widths := sheet.ColumnWidths()
	require.Len(t, widths, 3)
	assert.Equal(t, 28.0, widths[0], "totals label is the longest text in column A")
	assert.Equal(t, 14.0, widths[1])
	assert.Equal(t, MaxColumnWidth, widths[2])

	short := &Sheet{Headers: []string{"A"}}
	short.AddRow(TextCell("x"))
	assert.Equal(t, []float64{MinColumnWidth}, short.ColumnWidths())
}

func TestCell_Value(t *testing.T) {
	assert.Equal(t, 12.5, NumberCell(12.5, "$12.50").Value())
	assert.Equal(t, "abc", TextCell("abc").Value())
}
