package errors

import (
	"errors"
	"fmt"
)

// ServerError is the base interface for all workspace server errors.
type ServerError interface {
	error
	IsServerError() bool
}

// Compile-time verification that all error types implement ServerError.
var (
	_ ServerError = (*ToolNotFoundError)(nil)
	_ ServerError = (*ToolExecutionError)(nil)
	_ ServerError = (*DecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrCallInProgress indicates a tool call is already running and the
	// single execution slot cannot be acquired.
	ErrCallInProgress = errors.New("tool call already in progress")

	// ErrNoActiveCall indicates a signal was delivered while no tool call
	// was running.
	ErrNoActiveCall = errors.New("no active tool call")

	// ErrCallResolved indicates a signal was delivered after the call
	// already reached a terminal state (completed, failed, or signaled).
	ErrCallResolved = errors.New("tool call already resolved")

	// ErrServerNotRunning indicates the HTTP front end is not running.
	ErrServerNotRunning = errors.New("server not running")

	// ErrServerAlreadyRunning indicates the HTTP front end is already running.
	ErrServerAlreadyRunning = errors.New("server already running")
)

// ToolNotFoundError indicates a tools/call named a tool that is not registered.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// IsServerError implements ServerError.
func (e *ToolNotFoundError) IsServerError() bool { return true }

// ToolExecutionError indicates a tool's call operation failed.
// The failure is surfaced in the tool result payload, never as a
// protocol-level fault.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// IsServerError implements ServerError.
func (e *ToolExecutionError) IsServerError() bool { return true }

// DecodeError indicates an inbound envelope could not be decoded.
// This error preserves the original raw data that failed to parse.
type DecodeError struct {
	RawData string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode envelope: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsServerError implements ServerError.
func (e *DecodeError) IsServerError() bool { return true }
