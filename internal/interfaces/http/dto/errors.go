package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeTooLarge    = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited = "RATE_LIMITED"
)

// Domain error codes with a fixed HTTP status
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeStaleRequest         = "STALE_REQUEST"
	ErrCodeAIRequestFailed      = "AI_REQUEST_FAILED"
	ErrCodeAINotConfigured      = "AI_NOT_CONFIGURED"
	ErrCodeGatewayNotConfigured = "GATEWAY_NOT_CONFIGURED"
	ErrCodeUnsupportedGateway   = "UNSUPPORTED_GATEWAY"
	ErrCodeUnsupportedFormat    = "UNSUPPORTED_FORMAT"
	ErrCodeExportUnavailable    = "EXPORT_UNAVAILABLE"
	ErrCodePDFDisabled          = "PDF_EXPORT_DISABLED"
	ErrCodeDownloadUnavailable  = "DOWNLOAD_LINK_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeMissingField:  http.StatusBadRequest,
	ErrCodeUnauthorized:  http.StatusUnauthorized,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeStaleRequest: http.StatusConflict,

	ErrCodeAIRequestFailed:      http.StatusBadGateway,
	ErrCodeAINotConfigured:      http.StatusServiceUnavailable,
	ErrCodeGatewayNotConfigured: http.StatusUnprocessableEntity,
	ErrCodeUnsupportedGateway:   http.StatusUnprocessableEntity,
	ErrCodeUnsupportedFormat:    http.StatusBadRequest,
	ErrCodeExportUnavailable:    http.StatusServiceUnavailable,
	ErrCodePDFDisabled:          http.StatusServiceUnavailable,
	ErrCodeDownloadUnavailable:  http.StatusNotImplemented,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes not listed fall back on their prefix: INVALID_* is 400, TOKEN_* is
// 401, anything else 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_TOKEN"), strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
