package printing

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/erp/pos-reports/internal/domain/printing"
)

// Layout metrics in millimeters
const (
	fpdfLineHeight    = 5.0
	fpdfHeadingHeight = 7.0
	fpdfTitleHeight   = 8.0
	fpdfMetaHeight    = 4.5
	fpdfCellPadding   = 1.0
	fpdfLabelWidth    = 45.0
	fpdfSectionGap    = 4.0
	fpdfFooterGap     = 4.0

	// nbAlias is replaced with the total page count when the PDF is written
	nbAlias          = "{nb}"
	fpdfFooterFormat = "Page %d of " + nbAlias
)

var (
	headerFill = [3]int{221, 235, 247} // #DDEBF7
	totalsFill = [3]int{242, 242, 242}
)

// FPDFRenderer lays documents out natively with gofpdf. Table headers are
// repeated after every page break and rows are never split across pages.
type FPDFRenderer struct {
	logger     *zap.Logger
	fontFamily string
	fontSize   float64
	compress   bool
}

// FPDFOption configures an FPDFRenderer
type FPDFOption func(*FPDFRenderer)

// WithFPDFLogger sets the logger
func WithFPDFLogger(logger *zap.Logger) FPDFOption {
	return func(r *FPDFRenderer) {
		r.logger = logger
	}
}

// WithCompression toggles page stream compression
func WithCompression(compress bool) FPDFOption {
	return func(r *FPDFRenderer) {
		r.compress = compress
	}
}

// WithFontSize sets the body font size in points
func WithFontSize(size float64) FPDFOption {
	return func(r *FPDFRenderer) {
		if size > 0 {
			r.fontSize = size
		}
	}
}

// NewFPDFRenderer creates a gofpdf document renderer
func NewFPDFRenderer(opts ...FPDFOption) *FPDFRenderer {
	r := &FPDFRenderer{
		logger:     zap.NewNop(),
		fontFamily: "Helvetica",
		fontSize:   8,
		compress:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderDocument implements DocumentRenderer
func (r *FPDFRenderer) RenderDocument(ctx context.Context, doc *printing.Document) ([]byte, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidDocument, "document is nil", nil)
	}
	if err := doc.Validate(); err != nil {
		return nil, NewRenderError(ErrCodeInvalidDocument, "invalid document", err)
	}

	start := time.Now()
	l := r.newLayout(doc)
	l.writeTitle(doc)
	for _, s := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		l.writeSection(s)
	}
	if l.pdf.Err() {
		return nil, NewRenderError(ErrCodeRenderFailed, "gofpdf layout failed", l.pdf.Error())
	}

	var buf bytes.Buffer
	if err := l.pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	r.logger.Info("PDF rendered",
		zap.String("engine", "gofpdf"),
		zap.Int("bytes", buf.Len()),
		zap.Int("pages", l.pdf.PageNo()),
		zap.Duration("duration", time.Since(start)))
	return buf.Bytes(), nil
}

// Close is a no-op; gofpdf holds no external resources
func (r *FPDFRenderer) Close() error {
	return nil
}

type fpdfLayout struct {
	pdf          *gofpdf.Fpdf
	tr           func(string) string
	family       string
	size         float64
	left         float64
	contentWidth float64
	bottomLimit  float64
}

func (r *FPDFRenderer) newLayout(doc *printing.Document) *fpdfLayout {
	orientation := "P"
	if doc.Orientation == printing.OrientationLandscape {
		orientation = "L"
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		SizeStr:        fpdfSizeName(doc.PaperSize),
	})

	m := doc.Margins
	pdf.SetMargins(float64(m.Left), float64(m.Top), float64(m.Right))
	pdf.SetAutoPageBreak(false, float64(m.Bottom))
	pdf.SetCompression(r.compress)
	pdf.AliasNbPages(nbAlias)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("pos-reports", false)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	pdf.SetDrawColor(170, 170, 170)
	pdf.SetLineWidth(0.2)

	width, height := doc.Orientation.PageSize(doc.PaperSize)
	l := &fpdfLayout{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		family:       r.fontFamily,
		size:         r.fontSize,
		left:         float64(m.Left),
		contentWidth: width - float64(m.Left) - float64(m.Right),
		bottomLimit:  height - float64(m.Bottom),
	}
	pdf.SetFooterFunc(l.footer)
	pdf.AddPage()
	return l
}

func fpdfSizeName(p printing.PaperSize) string {
	switch p {
	case printing.PaperSizeLetter:
		return "Letter"
	case printing.PaperSizeLegal:
		return "Legal"
	default:
		return "A4"
	}
}

func (l *fpdfLayout) footer() {
	l.pdf.SetY(l.bottomLimit + fpdfFooterGap)
	l.pdf.SetFont(l.family, "I", l.size-1)
	l.pdf.SetTextColor(90, 90, 90)
	l.pdf.CellFormat(0, 4, fmt.Sprintf(fpdfFooterFormat, l.pdf.PageNo()), "", 0, "C", false, 0, "")
	l.pdf.SetTextColor(0, 0, 0)
}

// ensureSpace starts a new page when h millimeters don't fit on the current one
func (l *fpdfLayout) ensureSpace(h float64) bool {
	if l.pdf.GetY()+h <= l.bottomLimit {
		return false
	}
	l.pdf.AddPage()
	return true
}

func (l *fpdfLayout) writeTitle(doc *printing.Document) {
	l.pdf.SetFont(l.family, "B", l.size+6)
	l.pdf.CellFormat(0, fpdfTitleHeight, l.tr(doc.Title), "", 1, "L", false, 0, "")

	if len(doc.Meta) > 0 {
		parts := make([]string, len(doc.Meta))
		for i, m := range doc.Meta {
			parts[i] = m.Label + ": " + m.Value
		}
		l.pdf.SetFont(l.family, "", l.size)
		l.pdf.SetTextColor(85, 85, 85)
		l.pdf.MultiCell(0, fpdfMetaHeight, l.tr(strings.Join(parts, "     ")), "", "L", false)
		l.pdf.SetTextColor(0, 0, 0)
	}
	l.pdf.Ln(fpdfSectionGap)
}

func (l *fpdfLayout) writeSection(s printing.Section) {
	// Keep the heading on the same page as the first line after it
	need := 0.0
	if s.Heading != "" {
		need += fpdfHeadingHeight
	}
	switch {
	case len(s.Summary) > 0:
		need += fpdfLineHeight
	case s.Table != nil:
		need += 2 * fpdfLineHeight
	}
	l.ensureSpace(need)

	if s.Heading != "" {
		l.pdf.SetFont(l.family, "B", l.size+3)
		l.pdf.CellFormat(0, fpdfHeadingHeight, l.tr(s.Heading), "", 1, "L", false, 0, "")
	}
	l.writeSummary(s.Summary)
	if s.Table != nil {
		if len(s.Summary) > 0 {
			l.pdf.Ln(2)
		}
		l.writeTable(s.Table)
	}
	l.pdf.Ln(fpdfSectionGap)
}

func (l *fpdfLayout) writeSummary(figures []printing.KeyValue) {
	for _, f := range figures {
		l.ensureSpace(fpdfLineHeight)
		l.pdf.SetFont(l.family, "B", l.size)
		l.pdf.CellFormat(fpdfLabelWidth, fpdfLineHeight, l.tr(f.Label), "", 0, "L", false, 0, "")
		l.pdf.SetFont(l.family, "", l.size)
		l.pdf.CellFormat(0, fpdfLineHeight, l.tr(f.Value), "", 1, "L", false, 0, "")
	}
}

func (l *fpdfLayout) columnWidths(t *printing.Table) []float64 {
	total := t.TotalWeight()
	widths := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = l.contentWidth * c.EffectiveWeight() / total
	}
	return widths
}

func (l *fpdfLayout) writeTable(t *printing.Table) {
	widths := l.columnWidths(t)
	l.writeHeaderRow(t, widths)
	for _, row := range t.Rows {
		l.writeRow(t, widths, row, false)
	}
	if t.Totals != nil {
		l.writeRow(t, widths, t.Totals, true)
	}
}

func (l *fpdfLayout) writeHeaderRow(t *printing.Table, widths []float64) {
	l.pdf.SetFont(l.family, "B", l.size)
	lines := make([][]string, len(t.Columns))
	for i, c := range t.Columns {
		lines[i] = l.wrap(l.tr(c.Header), widths[i])
	}
	height := rowHeight(lines)
	// Never leave a header alone at the bottom of a page
	l.ensureSpace(height + fpdfLineHeight)

	aligns := make([]string, len(t.Columns))
	for i := range aligns {
		aligns[i] = "C"
	}
	l.drawRow(widths, lines, aligns, height, &headerFill)
}

func (l *fpdfLayout) writeRow(t *printing.Table, widths []float64, cells []string, totals bool) {
	style := ""
	var fill *[3]int
	if totals {
		style = "B"
		fill = &totalsFill
	}
	l.pdf.SetFont(l.family, style, l.size)

	lines := make([][]string, len(cells))
	aligns := make([]string, len(cells))
	for i, cell := range cells {
		text := l.tr(cell)
		if t.AvoidRowSplit {
			lines[i] = l.wrap(text, widths[i])
		} else {
			lines[i] = []string{l.truncate(text, widths[i])}
		}
		aligns[i] = fpdfAlign(t.Columns[i].Align)
	}
	height := rowHeight(lines)

	if l.pdf.GetY()+height > l.bottomLimit {
		l.pdf.AddPage()
		l.writeHeaderRow(t, widths)
		l.pdf.SetFont(l.family, style, l.size)
	}
	l.drawRow(widths, lines, aligns, height, fill)
}

// drawRow draws one bordered row whose cells may span several lines
func (l *fpdfLayout) drawRow(widths []float64, lines [][]string, aligns []string, height float64, fill *[3]int) {
	x, y := l.left, l.pdf.GetY()
	rectStyle := "D"
	if fill != nil {
		l.pdf.SetFillColor(fill[0], fill[1], fill[2])
		rectStyle = "FD"
	}
	for i, cellLines := range lines {
		l.pdf.Rect(x, y, widths[i], height, rectStyle)
		for j, line := range cellLines {
			l.pdf.SetXY(x, y+float64(j)*fpdfLineHeight)
			l.pdf.CellFormat(widths[i], fpdfLineHeight, line, "", 0, aligns[i], false, 0, "")
		}
		x += widths[i]
	}
	l.pdf.SetXY(l.left, y+height)
}

// wrap splits text into lines that fit width
func (l *fpdfLayout) wrap(text string, width float64) []string {
	if text == "" {
		return []string{""}
	}
	split := l.pdf.SplitLines([]byte(text), width-2*fpdfCellPadding)
	if len(split) == 0 {
		return []string{""}
	}
	lines := make([]string, len(split))
	for i, s := range split {
		lines[i] = string(s)
	}
	return lines
}

// truncate shortens text with "..." until it fits width. Text is already in
// the single-byte core font encoding, so trimming bytes is safe.
func (l *fpdfLayout) truncate(text string, width float64) string {
	available := width - 2*fpdfCellPadding
	if l.pdf.GetStringWidth(text) <= available {
		return text
	}
	const suffix = "..."
	suffixWidth := l.pdf.GetStringWidth(suffix)
	for len(text) > 0 {
		text = text[:len(text)-1]
		if l.pdf.GetStringWidth(text)+suffixWidth <= available {
			return text + suffix
		}
	}
	return ""
}

func rowHeight(lines [][]string) float64 {
	n := 1
	for _, cell := range lines {
		n = max(n, len(cell))
	}
	return float64(n) * fpdfLineHeight
}

func fpdfAlign(a printing.Align) string {
	switch a {
	case printing.AlignRight:
		return "R"
	case printing.AlignCenter:
		return "C"
	default:
		return "L"
	}
}

// Ensure FPDFRenderer implements DocumentRenderer
var _ DocumentRenderer = (*FPDFRenderer)(nil)
