package printing

import (
	"fmt"

	"go.uber.org/zap"

	infraconfig "github.com/erp/pos-reports/internal/infrastructure/config"
)

// NewDocumentRenderer builds the document renderer for cfg.PDFEngine
func NewDocumentRenderer(cfg infraconfig.ExportConfig, logger *zap.Logger) (DocumentRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("pdf_engine", cfg.PDFEngine))

	switch cfg.PDFEngine {
	case "", infraconfig.PDFEngineGofpdf:
		return NewFPDFRenderer(WithFPDFLogger(logger)), nil
	case infraconfig.PDFEngineChromedp:
		chrome := NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: cfg.RenderTimeout,
			RemoteURL:      cfg.ChromeRemoteURL,
			NoSandbox:      true,
			Logger:         logger,
		})
		return NewHTMLDocumentRenderer(NewTemplateEngine(), chrome, cfg.RenderTimeout), nil
	case infraconfig.PDFEngineWkhtmltopdf:
		wk, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath:     cfg.WkhtmltopdfPath,
			DefaultTimeout: cfg.RenderTimeout,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
		return NewHTMLDocumentRenderer(NewTemplateEngine(), wk, cfg.RenderTimeout), nil
	default:
		return nil, NewRenderError(ErrCodeUnknownEngine, fmt.Sprintf("unknown PDF engine %q", cfg.PDFEngine), nil)
	}
}
