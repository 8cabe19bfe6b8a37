// Package docnum reconciles list-numbering metadata in DOCX documents.
package docnum

import (
	"fmt"
	"strings"
)

// DocumentError represents a failure to read or parse the document
// package. This is the only fatal error class: without a tree there is
// nothing to reconcile, so it propagates to the caller.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// NumberingError represents a numbering defect scoped to one paragraph:
// a dangling numId, malformed numbering markup, or a failed repair. It is
// absorbed at the paragraph level during reconciliation and surfaces only
// in the diagnostic report, never as a pass failure.
type NumberingError struct {
	Container string
	Message   string
	Cause     error
}

func (e *NumberingError) Error() string {
	if e.Container != "" && e.Cause != nil {
		return fmt.Sprintf("numbering error at %s: %s: %v", e.Container, e.Message, e.Cause)
	} else if e.Container != "" {
		return fmt.Sprintf("numbering error at %s: %s", e.Container, e.Message)
	} else if e.Cause != nil {
		return fmt.Sprintf("numbering error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("numbering error: %s", e.Message)
}

func (e *NumberingError) Unwrap() error {
	return e.Cause
}

// NewNumberingError creates a new numbering error.
func NewNumberingError(container, message string, cause error) error {
	return &NumberingError{
		Container: container,
		Message:   message,
		Cause:     cause,
	}
}

// ValidationIssue represents a single validation problem.
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents one or more validation issues, such as
// indent geometry that would collapse a bullet onto the margin.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d validation issues:", len(e.Issues)))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// NewValidationError creates a validation error with a single issue.
func NewValidationError(field, message string) error {
	return &ValidationError{
		Issues: []ValidationIssue{{Field: field, Message: message}},
	}
}

// MultiError collects multiple errors.
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector.
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors).
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors.
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty.
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}

// IsNumberingError checks if an error is a numbering error.
func IsNumberingError(err error) bool {
	_, ok := err.(*NumberingError)
	return ok
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
