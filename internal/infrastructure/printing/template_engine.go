package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"strings"

	"github.com/erp/pos-reports/internal/domain/printing"
)

// TemplateEngine renders report documents to self-contained HTML.
// It uses Go's html/template package so every cell is escaped.
type TemplateEngine struct {
	funcMap  template.FuncMap
	document *template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with the document layout parsed
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}
	e.funcMap = template.FuncMap{
		"alignClass": alignClass,
		"colWidth":   colWidth,
		"pageSize":   pageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.document = template.Must(template.New("document").Funcs(e.funcMap).Parse(documentHTML))
	return e
}

// RenderDocument renders doc as a complete HTML page
func (e *TemplateEngine) RenderDocument(doc *printing.Document) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidDocument, "document is nil", nil)
	}
	var buf bytes.Buffer
	if err := e.document.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to render document HTML", err)
	}
	return buf.String(), nil
}

func alignClass(a printing.Align) string {
	switch a {
	case printing.AlignRight:
		return "r"
	case printing.AlignCenter:
		return "c"
	default:
		return "l"
	}
}

// colWidth returns the column's share of the table width as a percentage
func colWidth(t *printing.Table, c printing.Column) template.CSS {
	total := t.TotalWeight()
	if total <= 0 {
		return "auto"
	}
	return template.CSS(fmt.Sprintf("%.2f%%", c.EffectiveWeight()/total*100))
}

func pageSize(doc *printing.Document) template.CSS {
	orientation := "portrait"
	if doc.Orientation == printing.OrientationLandscape {
		orientation = "landscape"
	}
	return template.CSS(fmt.Sprintf("%s %s", strings.ToLower(doc.PaperSize.String()), orientation))
}

const documentHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
@page { size: {{pageSize .}}; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 9pt; color: #222; margin: 0; }
h1 { font-size: 15pt; margin: 0 0 4px 0; }
h2 { font-size: 11pt; margin: 14px 0 4px 0; page-break-after: avoid; }
.meta { margin-bottom: 10px; color: #555; }
.meta span { margin-right: 16px; }
table { width: 100%; border-collapse: collapse; table-layout: fixed; }
thead { display: table-header-group; }
th { background: #DDEBF7; font-weight: bold; text-align: center; border: 1px solid #999; padding: 3px; }
td { border: 1px solid #bbb; padding: 2px 3px; overflow-wrap: anywhere; }
tr { page-break-inside: avoid; break-inside: avoid; }
tr.totals td { font-weight: bold; background: #F2F2F2; }
table.summary { width: auto; margin-bottom: 6px; }
table.summary th { background: none; border: none; text-align: left; padding: 1px 8px 1px 0; }
table.summary td { border: none; padding: 1px 0; }
.l { text-align: left; }
.c { text-align: center; }
.r { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{range .Meta}}<span><strong>{{.Label}}:</strong> {{.Value}}</span>{{end}}</div>
{{range .Sections}}<section>
{{if .Heading}}<h2>{{.Heading}}</h2>{{end}}
{{with .Summary}}<table class="summary">{{range .}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>{{end}}</table>{{end}}
{{with .Table}}{{$t := .}}<table class="data">
<colgroup>{{range .Columns}}<col style="width: {{colWidth $t .}}">{{end}}</colgroup>
<thead><tr>{{range .Columns}}<th>{{.Header}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range $i, $cell := .}}<td class="{{alignClass (index $t.Columns $i).Align}}">{{$cell}}</td>{{end}}</tr>
{{end}}{{with .Totals}}<tr class="totals">{{range $i, $cell := .}}<td class="{{alignClass (index $t.Columns $i).Align}}">{{$cell}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
</section>
{{end}}</body>
</html>
`
