package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by services matches exactly one of
// these through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStore      = errors.New("store failure")
)

// Common errors
var (
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrMemberNotFound  = fmt.Errorf("member %w", ErrNotFound)
	ErrMediaNotFound   = fmt.Errorf("media item %w", ErrNotFound)
	ErrCoverNotFound   = fmt.Errorf("cover image %w", ErrNotFound)
	ErrReportNotFound  = fmt.Errorf("report file %w", ErrNotFound)
	ErrAdminNotFound   = fmt.Errorf("admin %w", ErrNotFound)

	ErrProjectMemberNotFound = fmt.Errorf("project member %w", ErrNotFound)

	ErrTaskUnavailable = fmt.Errorf("task is no longer available, choose another task: %w", ErrConflict)
	ErrTaskFilled      = fmt.Errorf("task is already filled and cannot be edited: %w", ErrConflict)
	ErrPhoneTaken      = fmt.Errorf("phone number is already registered: %w", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("email is already registered: %w", ErrConflict)
	ErrAlreadyOnRoster = fmt.Errorf("member is already on the project roster: %w", ErrConflict)

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one or more malformed input fields.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add appends a field error and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// OrNil returns nil when no field error was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// StoreError wraps a failure of the underlying record or object store.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err unless it already carries a domain error kind.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
