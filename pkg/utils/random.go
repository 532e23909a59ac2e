package utils

import (
	"github.com/google/uuid"
)

// NewRequestID generates a UUID string used to correlate a dashboard request
// with the upstream API calls and audit entries it causes.
func NewRequestID() string {
	return uuid.NewString()
}

// IsRequestID reports whether s looks like an id produced by NewRequestID.
func IsRequestID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
