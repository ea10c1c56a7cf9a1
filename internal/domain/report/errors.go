package report

import (
	"errors"
	"fmt"
)

// ErrorKind classifies report pipeline failures
type ErrorKind string

const (
	KindNoBranchSelected        ErrorKind = "NO_BRANCH_SELECTED"
	KindCollaboratorUnavailable ErrorKind = "COLLABORATOR_UNAVAILABLE"
	KindInvalidType             ErrorKind = "INVALID_TYPE"
	KindInvalidSubtype          ErrorKind = "INVALID_SUBTYPE"
	KindMissingFilter           ErrorKind = "MISSING_FILTER"
	KindNothingToExport         ErrorKind = "NOTHING_TO_EXPORT"
	KindExportFailed            ErrorKind = "EXPORT_FAILED"
	KindSuperseded              ErrorKind = "SUPERSEDED"
)

// DefaultCollaboratorMessage is used when the report service gave no message
const DefaultCollaboratorMessage = "The report service is unavailable, please try again"

// ReportError is the error type returned across the report pipeline boundary
type ReportError struct {
	Kind    ErrorKind
	Message string
	// Format is set for export failures ("pdf", "xlsx")
	Format string
	Cause  error
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// Is matches any ReportError of the same kind, so the Err* values can be used
// with errors.Is.
func (e *ReportError) Is(target error) bool {
	var t *ReportError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons
var (
	ErrNoBranchSelected        = &ReportError{Kind: KindNoBranchSelected}
	ErrCollaboratorUnavailable = &ReportError{Kind: KindCollaboratorUnavailable}
	ErrInvalidType             = &ReportError{Kind: KindInvalidType}
	ErrInvalidSubtype          = &ReportError{Kind: KindInvalidSubtype}
	ErrMissingFilter           = &ReportError{Kind: KindMissingFilter}
	ErrNothingToExport         = &ReportError{Kind: KindNothingToExport}
	ErrExportFailed            = &ReportError{Kind: KindExportFailed}
	ErrSuperseded              = &ReportError{Kind: KindSuperseded}
)

// KindOf returns the ErrorKind of err, or "" when err is not a ReportError
func KindOf(err error) ErrorKind {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// NewNoBranchSelectedError creates the error returned when no branch is in session
func NewNoBranchSelectedError() *ReportError {
	return &ReportError{
		Kind:    KindNoBranchSelected,
		Message: "Select a branch before generating a report",
	}
}

// NewCollaboratorUnavailableError wraps a report service failure. An empty
// message falls back to DefaultCollaboratorMessage.
func NewCollaboratorUnavailableError(message string, cause error) *ReportError {
	if message == "" {
		message = DefaultCollaboratorMessage
	}
	return &ReportError{
		Kind:    KindCollaboratorUnavailable,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidTypeError creates an error for an unknown report type
func NewInvalidTypeError(value string) *ReportError {
	return &ReportError{
		Kind:    KindInvalidType,
		Message: fmt.Sprintf("unknown report type %q", value),
	}
}

// NewInvalidSubtypeError creates an error for a subtype not registered for t
func NewInvalidSubtypeError(t Type, subtype Subtype) *ReportError {
	return &ReportError{
		Kind:    KindInvalidSubtype,
		Message: fmt.Sprintf("subtype %q is not available for report %q", subtype, t),
	}
}

// NewMissingFilterError creates an error for a required filter that is not set
func NewMissingFilterError(t Type, subtype Subtype, field FilterField) *ReportError {
	return &ReportError{
		Kind:    KindMissingFilter,
		Message: fmt.Sprintf("report %s/%s requires filter %q", t, subtype, field),
	}
}

// NewNothingToExportError creates the error returned when there is no report to export
func NewNothingToExportError() *ReportError {
	return &ReportError{
		Kind:    KindNothingToExport,
		Message: "Generate a report before exporting",
	}
}

// NewExportFailedError creates an export failure for the given format
func NewExportFailedError(format string, cause error) *ReportError {
	return &ReportError{
		Kind:    KindExportFailed,
		Message: fmt.Sprintf("could not export report as %s", format),
		Format:  format,
		Cause:   cause,
	}
}

// NewSupersededError creates the error returned for a discarded stale response
func NewSupersededError() *ReportError {
	return &ReportError{
		Kind:    KindSuperseded,
		Message: "A newer report request replaced this one",
	}
}
