package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNetwork is returned when no response was received after all
	// retry attempts.
	ErrNetwork = errors.New("network failure")

	// ErrAuthExpired is returned when a 401 could not be recovered by a
	// token refresh. The session has been cleared by the time it surfaces.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrNoRefreshToken is returned when a refresh was attempted without a
	// stored refresh token. Recovery from 401 is impossible in this state.
	ErrNoRefreshToken = errors.New("no refresh token")
)

// NetworkError is returned when a request received no response from the
// server after the retry budget was exhausted.
type NetworkError struct {
	// Attempts is the number of dispatch attempts performed.
	Attempts int
	// Cause is the connection-level error from the final attempt.
	Cause error
}

// Error returns a human-readable description of the network failure.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response after %d attempts: %v", e.Attempts, e.Cause)
}

// Unwrap returns the underlying connection error.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrNetwork).
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// AuthExpiredError is returned for a 401 whose refresh attempt also failed.
// It carries the original 401 response; the session has been cleared and the
// logout handler fired before this error is returned.
type AuthExpiredError struct {
	// Status is the status code of the original unauthorized response (401).
	Status int
	// Body is the body of the original unauthorized response.
	Body []byte
	// Cause is the refresh failure that made the 401 irrecoverable.
	Cause error
}

// Error returns a human-readable description of the expired session.
func (e *AuthExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired and refresh failed: %v", e.Cause)
	}
	return "session expired and refresh failed"
}

// Unwrap returns the refresh failure.
func (e *AuthExpiredError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrAuthExpired).
func (e *AuthExpiredError) Is(target error) bool {
	return target == ErrAuthExpired
}

// APIError is any non-2xx HTTP response other than a recoverable 401.
// It propagates to the caller untouched for domain-specific handling.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Body is the raw response body.
	Body []byte
}

// Error returns a human-readable description of the server error.
func (e *APIError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	if body == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, body)
}

// requestError marks request-construction failures (bad URL, unmarshalable
// body). These are not network failures and must not be retried.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// isNetworkError determines if an error is a connection-level error
// (server unreachable, connection refused, timeout, etc.) eligible for retry.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return false
	}
	// All other errors from http.Client.Do are connection errors
	// (DNS resolution, connection refused, TLS handshake, timeouts).
	return true
}
