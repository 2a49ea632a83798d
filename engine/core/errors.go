package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError through errors.Is.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound matches every NotFoundError through errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrResource matches every ResourceError through errors.Is.
	ErrResource = errors.New("resource error")
)

// ConfigurationError is returned when something is built from invalid input:
// an empty track, missing geometry, a duplicate entity name.
type ConfigurationError struct {
	Subject string
	Reason  string
}

func NewConfigurationError(subject, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NotFoundError is returned by lookups by name.
type NotFoundError struct {
	Kind string
	Name string
}

func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResourceError wraps a backend allocation failure (buffer, texture, program).
type ResourceError struct {
	Resource string
	Err      error
}

func NewResourceError(resource string, err error) *ResourceError {
	return &ResourceError{Resource: resource, Err: err}
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to allocate %s", e.Resource)
	}
	return fmt.Sprintf("failed to allocate %s: %s", e.Resource, e.Err)
}

func (e *ResourceError) Is(target error) bool {
	return target == ErrResource
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
