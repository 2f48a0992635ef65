package services

import (
	"errors"
	"fmt"
)

// Base error kinds surfaced by every engine operation. Callers match them
// with errors.Is and decide presentation; the engine never formats UI text.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrDuplicate          = errors.New("duplicate request")
	ErrValidation         = errors.New("validation error")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Error carries the operation that failed, the base kind for errors.Is
// matching, and a human-legible message.
type Error struct {
	Op      string // e.g. "enrollment.Decide"
	Kind    error  // one of the base kinds above
	Message string
	Err     error // underlying error, optional
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both kind and cause.
func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func newError(op string, kind error, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

// storageError wraps an unexpected database failure as ErrStorageUnavailable.
func storageError(op string, err error) *Error {
	return &Error{Op: op, Kind: ErrStorageUnavailable, Message: "storage operation failed", Err: err}
}
