// Package export contains the export formats, the generated artifact and
// the workbook layout model for spreadsheet exports.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/pos-reports/internal/domain/shared"
)

// Format is an export file format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// MIME types of the export formats
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FilenameDateLayout is DD-MM-YYYY
const FilenameDateLayout = "02-01-2006"

// ErrInvalidFormat is returned by ParseFormat for anything but pdf and xlsx
var ErrInvalidFormat = shared.NewDomainError("INVALID_FORMAT", "unsupported export format")

// ParseFormat converts a string into a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", ErrInvalidFormat.WithMessage(fmt.Sprintf("unsupported export format %q", s))
	}
	return f, nil
}

// IsValid checks if the Format is a valid value
func (f Format) IsValid() bool {
	return f == FormatPDF || f == FormatXLSX
}

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// MIMEType returns the content type of the format
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return MIMETypePDF
	case FormatXLSX:
		return MIMETypeXLSX
	default:
		return "application/octet-stream"
	}
}

// Filename builds Report_{type}_{subtype}_{DD-MM-YYYY}.{ext}
func Filename(reportType, subtype string, f Format, at time.Time) string {
	return fmt.Sprintf("Report_%s_%s_%s.%s", reportType, subtype, at.Format(FilenameDateLayout), f)
}

// Artifact is a generated export file
type Artifact struct {
	Filename    string
	Format      Format
	MIMEType    string
	Data        []byte
	GeneratedAt time.Time
	// Location is set once the artifact has been archived
	Location string
}

// NewArtifact creates an artifact named after the report and the generation time
func NewArtifact(reportType, subtype string, f Format, data []byte, generatedAt time.Time) *Artifact {
	return &Artifact{
		Filename:    Filename(reportType, subtype, f, generatedAt),
		Format:      f,
		MIMEType:    f.MIMEType(),
		Data:        data,
		GeneratedAt: generatedAt,
	}
}

// Size returns the artifact size in bytes
func (a *Artifact) Size() int {
	return len(a.Data)
}
