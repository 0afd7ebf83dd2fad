package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed to modify this dish")
	ErrTitleTaken      = errors.New("a dish with this title already exists")
	ErrAlreadyReviewed = errors.New("dish already reviewed by this user")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5")

	// ErrPersistence marks storage or database failures. Handlers show a
	// generic message; the wrapped detail only goes to the log.
	ErrPersistence = errors.New("failed to save changes")
)

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
