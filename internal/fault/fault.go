// internal/fault/fault.go
//
// Error kinds shared across the render pipeline.
//
// Context
// -------
// The storefront distinguishes four failure families, and handlers map
// each to one HTTP status:
//
//   - NotFound      – tenant, theme, route, or template absent (404).
//   - Unavailable   – cache or database connectivity failure (503).
//   - RemoteService – a downstream microservice failed (502).
//   - Validation    – malformed request body (400, field messages).
//
// Callers wrap the underlying cause with New so the original error stays
// reachable through errors.Unwrap, and branch on KindOf rather than on
// string matching.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for HTTP mapping and logging.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnavailable
	KindRemoteService
	KindValidation
)

// String returns the lowercase label used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindRemoteService:
		return "remote_service"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error carries a kind, a human-readable message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps cause with a kind and a formatted message.  cause may be nil.
func New(kind Kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// NotFound builds a KindNotFound error with no cause.
func NotFound(format string, args ...any) error {
	return New(KindNotFound, nil, format, args...)
}

// Unavailable wraps a connectivity failure.
func Unavailable(cause error, format string, args ...any) error {
	return New(KindUnavailable, cause, format, args...)
}

// RemoteService wraps a downstream microservice failure.
func RemoteService(cause error, format string, args ...any) error {
	return New(KindRemoteService, cause, format, args...)
}

// Validation builds a KindValidation error with no cause.
func Validation(format string, args ...any) error {
	return New(KindValidation, nil, format, args...)
}

// KindOf extracts the kind from err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a KindNotFound failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// HTTPStatus maps a kind to the response status the handlers use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRemoteService:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
