package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable error code surfaced in the error envelope.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindInvalidFileType Kind = "INVALID_FILE_TYPE"
	KindFileTooLarge    Kind = "FILE_TOO_LARGE"
	KindTooManyFiles    Kind = "TOO_MANY_FILES"
	KindUpload          Kind = "UPLOAD_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// Status returns the default HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidFileType, KindTooManyFiles, KindUpload:
		return http.StatusBadRequest
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure with a kind, a client-facing message and optional details.
type Error struct {
	Kind    Kind
	Message string
	Details any
	// Status overrides Kind.Status() when non-zero.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus is the transport status the error should be written with.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.Status()
}

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind carrying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation builds a VALIDATION_ERROR with details.
func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// NotFound builds a NOT_FOUND error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal builds an INTERNAL_ERROR with an explicit status.
func Internal(status int, message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Status: status, Cause: cause}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
