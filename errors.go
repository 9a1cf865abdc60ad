package scenekit

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrTypeMismatch = errors.New("type mismatch")
)

// MissingFieldError reports a required document key that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// TypeMismatchError reports a document value that has the wrong shape or type.
type TypeMismatchError struct {
	Field string
	Want  string
	Got   any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: want %s, got %T", e.Field, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }
