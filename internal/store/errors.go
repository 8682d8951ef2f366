package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document or row.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidID is returned for ids that are not valid ObjectID hex strings.
	ErrInvalidID = errors.New("invalid id")
)
