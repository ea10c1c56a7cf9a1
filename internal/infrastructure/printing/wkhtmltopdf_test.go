package printing

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/pos-reports/internal/domain/printing"
)

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestWkhtmltopdfBuildArgs(t *testing.T) {
	r := &WkhtmltopdfRenderer{config: &WkhtmltopdfConfig{DPI: 96}}

	args := r.buildArgs(&RenderRequest{
		HTML:        "<p>x</p>",
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationLandscape,
		Margins:     printing.DefaultMargins(),
		Title:       "Caja - Sesiones",
		PageNumbers: true,
	}, "/tmp/in.html", "/tmp/out.pdf")

	assert.Equal(t, "A4", argAfter(args, "--page-size"))
	assert.Equal(t, "Landscape", argAfter(args, "--orientation"))
	assert.Equal(t, "12mm", argAfter(args, "--margin-top"))
	assert.Equal(t, "15mm", argAfter(args, "--margin-bottom"))
	assert.Equal(t, "Caja - Sesiones", argAfter(args, "--title"))
	assert.Equal(t, "Page [page] of [topage]", argAfter(args, "--footer-center"))
	assert.Contains(t, args, "--disable-javascript")
	assert.Equal(t, []string{"/tmp/in.html", "/tmp/out.pdf"}, args[len(args)-2:])
}

func TestWkhtmltopdfBuildArgs_NoPageNumbers(t *testing.T) {
	r := &WkhtmltopdfRenderer{config: &WkhtmltopdfConfig{DPI: 96}}

	args := r.buildArgs(&RenderRequest{HTML: "<p>x</p>", PaperSize: printing.PaperSizeA4}, "in", "out")
	assert.NotContains(t, args, "--footer-center")
	assert.NotContains(t, args, "--title")
}

func TestBuildPaperSizeArgs(t *testing.T) {
	tests := []struct {
		paper       printing.PaperSize
		orientation printing.Orientation
		want        []string
	}{
		{printing.PaperSizeA4, printing.OrientationPortrait, []string{"--page-size", "A4", "--orientation", "Portrait"}},
		{printing.PaperSizeLetter, printing.OrientationPortrait, []string{"--page-size", "Letter", "--orientation", "Portrait"}},
		{printing.PaperSizeLegal, printing.OrientationLandscape, []string{"--page-size", "Legal", "--orientation", "Landscape"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.paper), func(t *testing.T) {
			assert.Equal(t, tt.want, buildPaperSizeArgs(tt.paper, tt.orientation))
		})
	}
}

func TestNewWkhtmltopdfRenderer_BinaryNotFound(t *testing.T) {
	_, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{BinaryPath: "/nonexistent/wkhtmltopdf"})
	require.Error(t, err)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeBinaryNotFound, renderErr.Code)
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
	pdf := []byte("<</Type /Pages /Kids [3 0 R 5 0 R]>> <</Type /Page>> <</Type /Page>>")
	assert.Equal(t, 2, estimatePageCount(pdf))
}
