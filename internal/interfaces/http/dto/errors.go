package dto

import (
	"net/http"

	"github.com/erp/pos-reports/internal/domain/report"
)

// Error code constants. Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	ErrCodeNotFound   = "ERR_NOT_FOUND"
	ErrCodeConflict   = "ERR_CONFLICT"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Report pipeline error codes
const (
	ErrCodeNoBranchSelected        = "ERR_NO_BRANCH_SELECTED"
	ErrCodeInvalidReportType       = "ERR_INVALID_REPORT_TYPE"
	ErrCodeInvalidSubtype          = "ERR_INVALID_SUBTYPE"
	ErrCodeMissingFilter           = "ERR_MISSING_FILTER"
	ErrCodeNothingToExport         = "ERR_NOTHING_TO_EXPORT"
	ErrCodeCollaboratorUnavailable = "ERR_COLLABORATOR_UNAVAILABLE"
	ErrCodeExportFailed            = "ERR_EXPORT_FAILED"
	ErrCodeSuperseded              = "ERR_SUPERSEDED"
	// ErrCodeReportLoading is used when an export is requested while the
	// workspace is still generating
	ErrCodeReportLoading = "ERR_REPORT_LOADING"
	// ErrCodeWorkspaceNotFound is used for unknown or expired workspaces
	ErrCodeWorkspaceNotFound = "ERR_WORKSPACE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNoBranchSelected:        http.StatusBadRequest,
	ErrCodeInvalidReportType:       http.StatusBadRequest,
	ErrCodeInvalidSubtype:          http.StatusBadRequest,
	ErrCodeMissingFilter:           http.StatusBadRequest,
	ErrCodeNothingToExport:         http.StatusConflict,
	ErrCodeCollaboratorUnavailable: http.StatusBadGateway,
	ErrCodeExportFailed:            http.StatusInternalServerError,
	ErrCodeSuperseded:              http.StatusConflict,
	ErrCodeReportLoading:           http.StatusConflict,
	ErrCodeWorkspaceNotFound:       http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

var reportKindCodes = map[report.ErrorKind]string{
	report.KindNoBranchSelected:        ErrCodeNoBranchSelected,
	report.KindInvalidType:             ErrCodeInvalidReportType,
	report.KindInvalidSubtype:          ErrCodeInvalidSubtype,
	report.KindMissingFilter:           ErrCodeMissingFilter,
	report.KindNothingToExport:         ErrCodeNothingToExport,
	report.KindCollaboratorUnavailable: ErrCodeCollaboratorUnavailable,
	report.KindExportFailed:            ErrCodeExportFailed,
	report.KindSuperseded:              ErrCodeSuperseded,
}

// ReportErrorCode returns the API code of a report error kind
func ReportErrorCode(kind report.ErrorKind) string {
	if code, ok := reportKindCodes[kind]; ok {
		return code
	}
	return ErrCodeInternal
}
