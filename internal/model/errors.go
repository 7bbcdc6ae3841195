package model

import (
	"fmt"
	"strings"
)

// ConfigurationError represents an unsupported serialization setting
type ConfigurationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("unsupported %s %v: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("unsupported %s: %s", e.Field, e.Message)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field string, value interface{}, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ValidationError represents failed arithmetic-consistency checks.
// Messages keeps the order the checks ran in.
type ValidationError struct {
	Subject  string
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s is invalid", e.Subject)
	}
	return fmt.Sprintf("%s is invalid: %s", e.Subject, strings.Join(e.Messages, "; "))
}

// NewValidationError creates a new validation error
func NewValidationError(subject string, messages ...string) *ValidationError {
	return &ValidationError{
		Subject:  subject,
		Messages: messages,
	}
}

// InputError represents a malformed invoice document handed to the loader
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input %s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// NewInputError creates a new input error
func NewInputError(field, message string, cause error) *InputError {
	return &InputError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}
