package services

import "errors"

// Error kinds. Every sentinel returned by this package matches exactly one of
// these through errors.Is, which is how handlers pick a status code.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication failed")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
	ErrUnavailable     = errors.New("service unavailable")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// PublicMessage returns the client-safe message for err. Wrapped details
// stay out of responses.
func PublicMessage(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return "internal server error"
}
