package errors

import (
	"strings"
	"unicode"
)

// ValidateIdentifier validates a node or group identifier.
// It rejects identifiers that could corrupt serialized output or cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Host-specific naming conventions are not enforced here; any printable
// string is a valid identifier for the layout engine.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains control characters")
		}
	}

	if strings.Contains(id, "\x00") {
		return New(ErrCodeInvalidInput, "identifier contains null byte")
	}

	return nil
}
