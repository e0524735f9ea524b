package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBuild signals that a vector space could not be fitted from the corpus.
	ErrBuild = errors.New("build failed")
	// ErrInvalidArgument signals a caller-supplied value rejected before computation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotReady signals that no vector space has been published yet.
	ErrNotReady = errors.New("catalog not loaded")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// BuildError wraps ErrBuild with the reason the corpus was rejected.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBuild.Error(), e.Reason)
}

func (e *BuildError) Unwrap() error { return ErrBuild }

// NewBuildError creates a build error.
func NewBuildError(reason string) error {
	return &BuildError{Reason: reason}
}

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
