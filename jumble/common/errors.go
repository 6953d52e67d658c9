package common

import (
	"errors"
	"fmt"
)

// Error kinds shared across jumble packages
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyWord    = fmt.Errorf("%w: word cannot be empty", ErrInvalidInput)
	ErrResource     = errors.New("resource unavailable")
	ErrBadSnapshot  = errors.New("malformed index snapshot")
)

// ResourceError reports a word list or snapshot that could not be opened, read or decoded.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func NewResourceError(op, path string, err error) *ResourceError {
	return &ResourceError{Op: op, Path: path, Err: err}
}

func (e *ResourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrResource) match any ResourceError.
func (e *ResourceError) Is(target error) bool { return target == ErrResource }

// IsInvalidInput reports whether err was caused by a rejected input word.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsResourceError reports whether err was caused by an unreadable resource.
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}
