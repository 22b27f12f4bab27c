// Package validate provides input validation helpers for the API layer.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// String validation errors
var (
	ErrEmpty         = errors.New("string is empty")
	ErrStringTooLong = errors.New("string is too long")
)

// StringConstraints defines validation constraints for a string field.
type StringConstraints struct {
	MaxLength  int  // Maximum length in runes (0 = no maximum)
	AllowEmpty bool // Whether empty strings are allowed
	TrimSpace  bool // Whether to trim whitespace before validation
}

// String validates a string against the given constraints.
// Returns the validated (and optionally trimmed) string and an error if
// validation fails. Lengths are counted in runes, not bytes, matching the
// limits users see in the dashboard.
func String(s string, constraints StringConstraints) (string, error) {
	if constraints.TrimSpace {
		s = strings.TrimSpace(s)
	}

	if s == "" {
		if !constraints.AllowEmpty {
			return "", ErrEmpty
		}
		return s, nil
	}

	if constraints.MaxLength > 0 {
		if length := utf8.RuneCountInString(s); length > constraints.MaxLength {
			return "", fmt.Errorf("%w: got %d chars, maximum is %d", ErrStringTooLong, length, constraints.MaxLength)
		}
	}

	return s, nil
}

// Required validates a non-empty trimmed string with a rune ceiling.
func Required(s string, maxLength int) (string, error) {
	return String(s, StringConstraints{MaxLength: maxLength, TrimSpace: true})
}

// Optional validates a possibly-empty trimmed string with a rune ceiling.
func Optional(s string, maxLength int) (string, error) {
	return String(s, StringConstraints{MaxLength: maxLength, AllowEmpty: true, TrimSpace: true})
}
