package validation

import (
	"errors"
)

// ValidatePassword checks the limits bcrypt can honour.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
