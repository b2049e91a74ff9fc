// Package store persists events, registrations and legacy users through gorm.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a write is missing a required field.
	ErrInvalid = errors.New("invalid record")
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func invalid(field string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalid, field)
}
