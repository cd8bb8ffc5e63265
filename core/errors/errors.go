// Package errors provides the error kinds shared by the talababa packages.
//
// Lookups that simply find nothing (an unpublished book, a footnote id that
// is not in the dataset) are not errors anywhere in this module; these types
// are reserved for structurally invalid calls, unreadable datasets and
// storage failures.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every typed error below unwraps to one of these.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a structurally invalid argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates a failure that is not the caller's fault.
	ErrInternal = errors.New("internal error")
)

// NotFoundError reports a missing record, such as a note id or a footnote
// requested directly by the CLI.
type NotFoundError struct {
	Resource string // e.g. "note", "footnote", "chapter"
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError reports an argument that cannot be acted on.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Value != nil:
		return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
	case e.Field != "":
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ParseError reports a dataset or settings document that could not be decoded.
type ParseError struct {
	Format  string // "JSON", "TOML", "footnote id", ...
	Source  string // file or archive member, if any
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("failed to parse %s in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

// Unwrap yields ErrInvalidInput and the cause, if any.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// IOError reports a filesystem or database operation that failed.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewNotFound creates a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation creates a ValidationError carrying the rejected value.
func NewValidation(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NewParse creates a ParseError wrapping the decoder's error.
func NewParse(format, source string, err error) *ParseError {
	pe := &ParseError{Format: format, Source: source, Err: err}
	if err != nil {
		pe.Message = err.Error()
	}
	return pe
}

// NewIO creates an IOError.
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Kind returns the sentinel err unwraps to, or ErrInternal when it carries none.
// A nil err has no kind.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidInput):
		return ErrInvalidInput
	default:
		return ErrInternal
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
