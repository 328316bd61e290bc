package errx

import (
	"fmt"
	"net/http"
)

// ============================================================================
// Error Types
// ============================================================================

// Type classifies an error for logging and HTTP mapping.
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeBusiness       Type = "BUSINESS"
	TypeInternal       Type = "INTERNAL"
)

// ============================================================================
// Error
// ============================================================================

// Error is the structured error carried across every layer. It satisfies the
// error interface and keeps enough context (code, type, HTTP status, details)
// for the global handler to build a response without inspecting messages.
type Error struct {
	Code       string
	Type       Type
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value pair for the response payload.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Wrap converts an arbitrary error into an *Error. Already-wrapped errors are
// returned untouched so codes survive layer boundaries.
func Wrap(err error, message string, errType Type) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{
		Code:       string(errType),
		Type:       errType,
		Message:    message,
		HTTPStatus: httpStatusFor(errType),
		Err:        err,
	}
}

func httpStatusFor(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ============================================================================
// Registry
// ============================================================================

// Registry namespaces error codes per package ("USER", "JOB", ...) so every
// domain declares its catalog once and builds instances from it.
type Registry struct {
	prefix  string
	entries map[string]registeredError
}

type registeredError struct {
	errType    Type
	httpStatus int
	message    string
}

// NewRegistry creates a registry whose codes are prefixed with the given
// namespace, e.g. NewRegistry("JOB") yields codes like "JOB.NOT_FOUND".
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix:  prefix,
		entries: make(map[string]registeredError),
	}
}

// Register declares an error code and returns the fully-qualified code string.
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) string {
	full := r.prefix + "." + code
	r.entries[full] = registeredError{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New builds a fresh *Error for a registered code. Unknown codes degrade to an
// internal error rather than panicking.
func (r *Registry) New(code string) *Error {
	entry, ok := r.entries[code]
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Code:       code,
		Type:       entry.errType,
		Message:    entry.message,
		HTTPStatus: entry.httpStatus,
	}
}
