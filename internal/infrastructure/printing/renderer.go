package printing

import (
	"context"
	"time"

	"github.com/erp/pos-reports/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// PaperSize defines the output paper dimensions
	PaperSize printing.PaperSize
	// Orientation defines portrait or landscape
	Orientation printing.Orientation
	// Margins in millimeters
	Margins printing.Margins
	// Title for the PDF document metadata
	Title string
	// PageNumbers stamps "Page X of Y" in the footer of every page
	PageNumbers bool
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// DocumentRenderer renders a laid-out report document to PDF bytes
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, doc *printing.Document) ([]byte, error)
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidDocument  = "INVALID_DOCUMENT"
	ErrCodeBinaryNotFound   = "BINARY_NOT_FOUND"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeUnknownEngine    = "UNKNOWN_ENGINE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HTMLDocumentRenderer renders documents to HTML and prints them with an
// HTML to PDF engine.
type HTMLDocumentRenderer struct {
	engine  *TemplateEngine
	pdf     PDFRenderer
	timeout time.Duration
}

// NewHTMLDocumentRenderer creates a document renderer on top of pdf
func NewHTMLDocumentRenderer(engine *TemplateEngine, pdf PDFRenderer, timeout time.Duration) *HTMLDocumentRenderer {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	return &HTMLDocumentRenderer{engine: engine, pdf: pdf, timeout: timeout}
}

// RenderDocument implements DocumentRenderer
func (r *HTMLDocumentRenderer) RenderDocument(ctx context.Context, doc *printing.Document) ([]byte, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidDocument, "document is nil", nil)
	}
	html, err := r.engine.RenderDocument(doc)
	if err != nil {
		return nil, err
	}
	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   doc.PaperSize,
		Orientation: doc.Orientation,
		Margins:     doc.Margins,
		Title:       doc.Title,
		PageNumbers: true,
		Timeout:     r.timeout,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// Close releases the underlying engine
func (r *HTMLDocumentRenderer) Close() error {
	return r.pdf.Close()
}

// Ensure HTMLDocumentRenderer implements DocumentRenderer
var _ DocumentRenderer = (*HTMLDocumentRenderer)(nil)
