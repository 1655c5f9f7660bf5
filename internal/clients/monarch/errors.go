package monarch

import "errors"

var (
	// ErrAuthenticationRequired means no token is attached to the client.
	// Callers should log in (or load a saved session) and retry.
	ErrAuthenticationRequired = errors.New("authentication required: no session token")

	// ErrMFARequired is returned when the login endpoint demands a one-time
	// code, so callers can prompt for one and continue with
	// MultiFactorAuthenticate.
	ErrMFARequired = errors.New("multi-factor authentication required")

	// ErrLoginFailed covers every other login rejection.
	ErrLoginFailed = errors.New("login failed")
)
