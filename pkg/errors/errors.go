/*
Copyright © 2025 Dataflux Authors
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a deployment failure for programmatic handling.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates required run-level inputs are missing
	// or invalid. Raised before any collaborator is constructed.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeHealthCheck indicates the node health check did not return
	// the success sentinel. Fatal to the whole run.
	ErrCodeHealthCheck ErrorCode = "HEALTH_CHECK"
	// ErrCodeParse indicates a payload file could not be read or decoded
	// as JSON. Fatal to the whole run.
	ErrCodeParse ErrorCode = "PARSE"
	// ErrCodePackaging indicates bundle packaging failed. Scoped to the
	// config deployment step.
	ErrCodePackaging ErrorCode = "PACKAGING"
	// ErrCodeUpload indicates a node upload operation failed. Scoped to
	// its originating step.
	ErrCodeUpload ErrorCode = "UPLOAD"
	// ErrCodeUnauthorized indicates the node rejected the bearer credential.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeTimeout indicates an operation exceeded the client timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries an error code for programmatic handling, a
// human-readable message, the underlying cause, and optional context
// for diagnostics.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the error code carried by err, walking the wrap chain.
// Errors without a StructuredError in their chain report ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code == code
	}
	return false
}
