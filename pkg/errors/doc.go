// Package errors provides structured error types for the deployment
// error taxonomy, enabling programmatic classification of failures.
//
// Example usage:
//
//	err := errors.Wrap(
//	    errors.ErrCodePackaging,
//	    "failed to package config folder",
//	    cause,
//	)
package errors
