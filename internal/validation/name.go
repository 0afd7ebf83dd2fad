package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ValidateName validates a person name field
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateUsername validates a login name
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}

	if len(username) > 100 {
		return errors.New("username is too long (max 100 characters)")
	}

	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return errors.New("username must not contain spaces")
		}
	}

	return nil
}
