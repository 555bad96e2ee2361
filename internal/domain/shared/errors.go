// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Persistence errors
	ErrPersistence  = errors.New("persistence failure")
	ErrCorruptState = errors.New("corrupt persisted state")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progress", "content", "storage"
	Op      string // Operation that failed, e.g., "Load", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Content domain errors
var (
	ErrChapterNotFound = NewDomainError("content", "GetChapter", ErrNotFound, "chapter not found")
	ErrLessonNotFound  = NewDomainError("content", "GetLesson", ErrNotFound, "lesson not found")
	ErrBankUnavailable = NewDomainError("content", "Load", ErrUnavailable, "question bank is not loaded")
	ErrBankMalformed   = NewDomainError("content", "Load", ErrInvalidFormat, "question bank failed validation")
)

// Progress domain errors
var (
	ErrEmptyUserID     = NewDomainError("progress", "Resolve", ErrEmptyValue, "user id is empty")
	ErrRecordCorrupted = NewDomainError("progress", "Load", ErrCorruptState, "user record failed to parse")
	ErrSaveFailed      = NewDomainError("progress", "Save", ErrPersistence, "user record could not be persisted")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsCorruptState checks if the error marks an unreadable persisted record.
// Corruption is recoverable: the store substitutes defaults and re-persists.
func IsCorruptState(err error) bool {
	return errors.Is(err, ErrCorruptState)
}

// IsPersistence checks if the error is a durable-write failure. These are
// surfaced to the caller: the in-memory state holds the mutation, but it may
// not survive a restart.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
