package service

import "errors"

var (
	// ErrInvalidCredentials is the single rejection returned for both unknown
	// usernames and wrong passwords, so responses cannot be used to enumerate
	// accounts. Only Authenticate returns it; no other site produces this
	// failure independently.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when a signup collides with an existing
	// username. Unlike login failures this one is specific on purpose.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrOutsideBusinessHours rejects sales submitted outside 07:00-21:00 UTC.
	ErrOutsideBusinessHours = errors.New("sales can only be submitted between 07:00 and 21:00 UTC")
)

// ValidationError carries a user-facing message for malformed input. The HTTP
// layer returns it verbatim with status 400.
type ValidationError struct {
	msg string
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}
