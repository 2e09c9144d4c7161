package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the server reports that the requested
	// record does not exist.
	ErrNotFound = errors.New("itinerary not found")

	// ErrNoRefreshToken is returned when a token refresh is needed but no
	// refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrNoAccessToken is returned when an authenticated request is made
	// with no access token available.
	ErrNoAccessToken = errors.New("no access token available")
)

// AuthError indicates that the session could not be kept alive: the token
// refresh failed and stored credentials were cleared. The user has to log
// in again.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError indicates a transport-level failure: the request never
// produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError indicates a non-success HTTP response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Body)
}
