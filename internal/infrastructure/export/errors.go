package export

import "github.com/outvoice/backend/internal/domain/shared"

var (
	// ErrPDFDisabled is returned when PDF output is requested but not enabled
	ErrPDFDisabled = shared.NewDomainError("PDF_EXPORT_DISABLED", "PDF export is not enabled")
	// ErrUnsupportedFormat is returned for an unknown export format
	ErrUnsupportedFormat = shared.NewDomainError("UNSUPPORTED_FORMAT", "Export format must be csv, html or pdf")
)

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
)

// RenderError represents an error during template or PDF rendering
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

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
