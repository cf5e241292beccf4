// Package apperr defines sentinel errors shared by the store, service, and API layers.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidProvider = errors.New("invalid provider")
)
