// Package printing renders report documents to PDF.
//
// Three engines are available:
//   - FPDFRenderer lays the document out natively with gofpdf
//   - ChromedpRenderer prints the document's HTML through headless Chrome
//   - WkhtmltopdfRenderer prints the document's HTML with the wkhtmltopdf binary
//
// The HTML engines implement PDFRenderer and are adapted to documents by
// HTMLDocumentRenderer, which renders the document with the TemplateEngine
// first. NewDocumentRenderer selects an engine by name:
//
//	renderer, err := NewDocumentRenderer(cfg.Export, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	pdf, err := renderer.RenderDocument(ctx, doc)
package printing
