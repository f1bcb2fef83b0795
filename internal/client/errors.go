package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is returned by every Client method when the request could not be
// sent, the service answered with a non-2xx status, or the response body
// could not be decoded.
type Error struct {
	Op     string
	Method string
	URL    string

	// StatusCode is 0 when no response was received.
	StatusCode int
	// Status is the reason phrase, e.g. "Internal Server Error".
	Status string
	// Detail is the "error" field of the service's JSON error body, if any.
	Detail string

	Err error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		msg := e.Status
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", e.StatusCode)
		}
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the notes service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
