package client

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the API. Message holds
// the server's structured error text when one was provided.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Reason returns the server-provided error message from err when present,
// or fallback for network errors and empty rejections. Remote rejections and
// transport failures recover the same way; only the message differs.
func Reason(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}
