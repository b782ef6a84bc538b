package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a request failed validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists indicates a unique resource already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrUpstream indicates the upstream content provider failed
	ErrUpstream = errors.New("upstream failure")
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewNotFound is a shorthand for &NotFoundError{}.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation is a shorthand for &ValidationError{}.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
