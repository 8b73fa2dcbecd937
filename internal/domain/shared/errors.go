package shared

// DomainError is a rule violation with a stable machine-readable code.
// The HTTP layer maps codes to statuses; Message is shown to the user.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code, so a sentinel still matches after wrapping or copying
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrStaleRequest is returned to an AI caller whose request was superseded
	ErrStaleRequest = NewDomainError("STALE_REQUEST", "A newer request superseded this one")
)
