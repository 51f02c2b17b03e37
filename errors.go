package moviegraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownExecutor is returned by NewExecutor for an unregistered name.
	ErrUnknownExecutor = errors.New("unknown executor")
	// ErrConfigNotFound is returned when no config file exists up the directory tree.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrMissingURI is returned when an executor is created without a connection URI.
	ErrMissingURI = errors.New("connection URI is required")
)

// ValidationError reports a caller-supplied identifier rejected before any
// query is built.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// RequireNonBlank returns a ValidationError when value is empty or whitespace.
func RequireNonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Value: value, Reason: "must not be blank"}
	}

	return nil
}

// MappingError reports a raw record that cannot be converted into its declared shape.
type MappingError struct {
	// Field is the dotted path of the offending field, e.g. "n.title".
	Field string
	// Shape lists the keys present at the level where mapping failed.
	Shape  []string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map field %q: %s (record keys: [%s])", e.Field, e.Reason, strings.Join(e.Shape, ", "))
}

// BackendError wraps a failure of the executor after the driver gave up retrying.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
