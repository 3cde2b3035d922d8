// Package errors defines error types for the workspace protocol server.
//
// This package provides sentinel errors for execution slot and lifecycle
// states plus structured error types for decode and tool failures. All
// error types support unwrapping and can be checked with errors.Is and
// errors.As.
package errors
