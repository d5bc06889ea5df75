package domain

import "errors"

// Failure taxonomy shared by services and handlers. Validation messages
// are safe to surface verbatim; everything else maps to a generic
// client message and a server-side log line.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrItemNotFound       = errors.New("item not found")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrOperationFailed    = errors.New("operation failed")
)

// ValidationError carries the field message shown to the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
