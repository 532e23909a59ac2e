package apiclient

import (
	"errors"
	"fmt"
)

// RequestError is the single failure kind returned by every Client operation.
// Transport failures carry StatusCode 0.
type RequestError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Message extracts a human readable message from err, or returns fallback
// when err carries none.
func Message(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}

func statusMessage(status int) string {
	return fmt.Sprintf("HTTP %d", status)
}
