package utils

import (
	"github.com/google/uuid"
)

// NewID returns a random identifier for sessions and requests.
func NewID() string {
	return uuid.New().String()
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
