package core

import "errors"

// Common errors.
var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("storage is in read-only mode")
)
