package gfonts

import "fmt"

// AuthError indicates a missing or rejected API credential.
//
// It is returned before any network call when no key is configured, and
// after a 400/401/403 response from the metadata API. Auth failures are
// fatal for the whole run.
type AuthError struct {
	// Reason describes the failure in user terms.
	Reason string

	// StatusCode is the HTTP status that triggered the error,
	// or 0 when no request was made.
	StatusCode int
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (HTTP %d): %s", e.StatusCode, e.Reason)
	}
	return "authentication failed: " + e.Reason
}

// NotFoundError indicates the requested family is unknown to the API.
type NotFoundError struct {
	// Family is the name as requested by the user.
	Family string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("font family %q not found", e.Family)
}

// NetworkError indicates a transient transport or server-side failure
// while talking to the metadata API. Resolve does not retry; the error
// propagates to the caller.
type NetworkError struct {
	// URL is the request that failed.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
