// Package spreadsheet writes report workbooks as XLSX files with excelize.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/export"
)

// Ensure Writer implements WorkbookWriter
var _ reportapp.WorkbookWriter = (*Writer)(nil)

// HeaderFillColor is the light blue behind header cells
const HeaderFillColor = "DDEBF7"

const moneyNumFmt = `"$"#,##0.00;-"$"#,##0.00`

// ErrEmptyWorkbook is returned for a workbook without sheets
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Writer serializes export.Workbook values to XLSX
type Writer struct {
	logger *zap.Logger
}

// Option configures a Writer
type Option func(*Writer)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a new Writer
func NewWriter(opts ...Option) *Writer {
	w := &Writer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type styles struct {
	header     int
	totalLabel int
	money      int
	totalMoney int
}

// Write implements WorkbookWriter
func (w *Writer) Write(ctx context.Context, wb *export.Workbook) ([]byte, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	f, err := w.build(ctx, wb)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	w.logger.Debug("Workbook written",
		zap.Int("sheets", len(wb.Sheets)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (w *Writer) build(ctx context.Context, wb *export.Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{HeaderFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	numFmt := moneyNumFmt
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}
	totalLabel, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create totals style: %w", err)
	}
	totalMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create totals style: %w", err)
	}
	return &styles{header: header, totalLabel: totalLabel, money: money, totalMoney: totalMoney}, nil
}

// writeSheet lays out the header row, the data rows, one blank separator row
// and the key-value totals block.
func writeSheet(f *excelize.File, sheet *export.Sheet, st *styles) error {
	name := sheet.Name

	for i, h := range sheet.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	if len(sheet.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", last, st.header); err != nil {
			return err
		}
		if err := f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	row := 2
	for _, cells := range sheet.Rows {
		for i, c := range cells {
			if err := writeCell(f, name, i+1, row, c, st.money); err != nil {
				return err
			}
		}
		row++
	}

	if len(sheet.Totals) > 0 {
		row++ // blank separator
		for _, t := range sheet.Totals {
			label, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, label, t.Label); err != nil {
				return err
			}
			if err := f.SetCellStyle(name, label, label, st.totalLabel); err != nil {
				return err
			}
			if err := writeCell(f, name, 2, row, t.Value, st.totalMoney); err != nil {
				return err
			}
			if !isMoney(t.Value) {
				value, _ := excelize.CoordinatesToCellName(2, row)
				if err := f.SetCellStyle(name, value, value, st.totalLabel); err != nil {
					return err
				}
			}
			row++
		}
	}

	for i, width := range sheet.ColumnWidths() {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(f *excelize.File, sheet string, col, row int, c export.Cell, moneyStyle int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, c.Value()); err != nil {
		return err
	}
	if isMoney(c) {
		return f.SetCellStyle(sheet, cell, cell, moneyStyle)
	}
	return nil
}

// isMoney reports whether a numeric cell was formatted as currency
func isMoney(c export.Cell) bool {
	return c.IsNumeric && strings.Contains(c.Text, "$")
}
