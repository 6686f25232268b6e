package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoCredential     = errors.New("no credential")

	// View-level errors.
	ErrEmptyField  = errors.New("field must not be empty")
	ErrUnavailable = errors.New("book is not available")
	ErrUnknownView = errors.New("unknown view")
)
