// Package apperrors defines the application-level error types and exit codes
// of the riemann command. Numeric failures are reported by package riemann;
// this package classifies them, together with configuration, timeout and
// rendering failures, into process exit statuses.
//
// All wrapping error types implement Unwrap so that errors.Is and errors.As
// reach the underlying cause.
package apperrors
