package engine

import "errors"

var (
	// ErrForbidden means the caller does not own the target entity.
	ErrForbidden = errors.New("not authorized for this resource")
	// ErrValidation means the input was malformed (empty content, bad enum, ...).
	ErrValidation = errors.New("invalid input")
)
