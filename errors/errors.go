package errors

import (
	"errors"
	"fmt"
	"strings"
)

// These are the sentinels every typed error below unwraps to.
var (
	ErrNotFound           = errors.New("not found")
	ErrMalformedConfig    = errors.New("malformed configuration")
	ErrPermission         = errors.New("permission denied")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
	ErrInvalidPattern     = errors.New("invalid pattern")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// NotFoundError represents a configuration file or a root path that does not exist.
type NotFoundError struct {
	Kind string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// MalformedConfigError represents configuration content that cannot be parsed as structured data.
type MalformedConfigError struct {
	Path    string
	Message string
}

func (e *MalformedConfigError) Error() string {
	return fmt.Sprintf("malformed configuration '%s': %s", e.Path, e.Message)
}

func (e *MalformedConfigError) Unwrap() error {
	return ErrMalformedConfig
}

// PermissionError represents a directory that could not be listed due to access restrictions.
type PermissionError struct {
	Path    string
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("couldn't list '%s': %s", e.Path, e.Message)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermission
}

// InvalidSelectionError represents operator input that is neither "all" nor a comma-separated list of integers.
type InvalidSelectionError struct {
	Input   string
	Message string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection '%s': %s", e.Input, e.Message)
}

func (e *InvalidSelectionError) Unwrap() error {
	return ErrInvalidSelection
}

// InvalidPatternError represents a glob pattern that cannot be compiled.
type InvalidPatternError struct {
	Field   string
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("field '%s': invalid glob pattern '%s'", e.Field, e.Pattern)
}

func (e *InvalidPatternError) Unwrap() error {
	return ErrInvalidPattern
}

// ValidationError wraps multiple validation errors that occurred while checking a configuration or options.
type ValidationError struct {
	ContextName string
	Errors      []error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.ContextName != "" {
		sb.WriteString(fmt.Sprintf("invalid %s", e.ContextName))
	} else {
		sb.WriteString("invalid configuration")
	}
	if len(e.Errors) >= 1 {
		sb.WriteString(":")
	}

	for _, err := range e.Errors {
		sb.WriteString("\n       ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// UnderlyingErrors returns the slice of individual validation errors (immutable).
func (e *ValidationError) UnderlyingErrors() []error {
	if e.Errors == nil {
		return nil
	}

	// Return a copy to prevent mutations
	result := make([]error, len(e.Errors))
	copy(result, e.Errors)

	return result
}

func NewNotFoundError(kind, path string) error {
	return &NotFoundError{
		Kind: kind,
		Path: path,
	}
}

func NewMalformedConfigError(path string, err error) error {
	return &MalformedConfigError{
		Path:    path,
		Message: err.Error(),
	}
}

func NewPermissionError(path string, err error) error {
	return &PermissionError{
		Path:    path,
		Message: err.Error(),
	}
}

func NewInvalidSelectionError(input, message string) error {
	return &InvalidSelectionError{
		Input:   input,
		Message: message,
	}
}

func NewInvalidPatternError(field, pattern string) error {
	return &InvalidPatternError{
		Field:   field,
		Pattern: pattern,
	}
}

func NewValidationError(contextName string, errs []error) error {
	return &ValidationError{
		ContextName: contextName,
		Errors:      errs,
	}
}
