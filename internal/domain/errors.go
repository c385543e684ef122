package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id does not match any stored record.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned before any write when input is incomplete or malformed.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the record that was looked up. It matches ErrNotFound
// with errors.Is.
type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsNotFound reports whether err is a NotFoundError for the given entity
// and id.
func IsNotFound(err error, entity, id string) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Entity == entity && nf.ID == id
}
