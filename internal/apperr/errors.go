package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors raised by the repository and mapped to HTTP statuses at the
// handler boundary.
var (
	// ErrLeadNotFound means the referenced lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrDuplicateEmail means a lead with the same email already exists.
	ErrDuplicateEmail = errors.New("lead with this email already exists")
)

// ValidationError reports one or more invalid request fields. It is raised
// before any storage operation runs.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a violation for the named field and returns the error so calls
// can be chained.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps a failure of the underlying store. Its detail is logged
// server-side and never sent to the client.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage wraps err as a StorageError unless it already is a domain
// error that should pass through untouched.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrLeadNotFound) || errors.Is(err, ErrDuplicateEmail) {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
