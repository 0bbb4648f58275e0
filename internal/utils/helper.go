package utils

import (
	"strings"

	"github.com/google/uuid"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ShortID returns the first 8 hex characters of a uuid, the form order
// numbers are shown in to customers.
func ShortID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
