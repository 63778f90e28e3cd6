// Package sharepoint is a client for SharePoint Online: it performs the
// federated sign-in handshake that yields a Session, and reads folder
// listings and document properties from the REST API's Atom feeds.
package sharepoint

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Use errors.Is(err, sharepoint.ErrNotFound) to check.
var (
	ErrAuthentication    = errors.New("sharepoint: authentication failed")
	ErrTransport         = errors.New("sharepoint: transport error")
	ErrMalformedResponse = errors.New("sharepoint: malformed response")
	ErrNotFound          = errors.New("sharepoint: not found")

	// Finer classes of ErrTransport.
	ErrUnauthorized = errors.New("sharepoint: unauthorized")
	ErrForbidden    = errors.New("sharepoint: forbidden")
	ErrThrottled    = errors.New("sharepoint: throttled")
	ErrServerError  = errors.New("sharepoint: server error")
)

// HTTPError describes a non-success response from the REST API.
// A 404/410 matches ErrNotFound; every other status matches ErrTransport
// and, where one applies, a finer class such as ErrForbidden.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	RequestID  string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *HTTPError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("sharepoint: %s %s: HTTP %d (request-id: %s): %s",
			e.Method, e.Path, e.StatusCode, e.RequestID, e.Message)
	}

	return fmt.Sprintf("sharepoint: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() []error {
	if e.Err == ErrNotFound {
		return []error{ErrNotFound}
	}

	if e.Err == nil || e.Err == ErrTransport {
		return []error{ErrTransport}
	}

	return []error{ErrTransport, e.Err}
}

// classifyStatus maps a non-2xx status code to a sentinel error.
func classifyStatus(code int) error {
	switch code {
	case http.StatusNotFound, http.StatusGone:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests, statusBandwidthExceeded:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return ErrTransport
	}
}

// statusBandwidthExceeded is SharePoint's 509 Bandwidth Limit Exceeded.
const statusBandwidthExceeded = 509

// AuthError reports which step of the sign-in handshake failed.
// It matches ErrAuthentication as well as the underlying cause.
type AuthError struct {
	Step string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("sharepoint: authentication failed at %s: %v", e.Step, e.Err)
}

func (e *AuthError) Unwrap() []error {
	return []error{ErrAuthentication, e.Err}
}

// malformed builds an ErrMalformedResponse with context.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
