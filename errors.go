package workspacemcp

import "github.com/wagiedev/workspace-mcp-go/internal/errors"

// Re-export error types from internal package

// ServerError is the base interface for all workspace server errors.
type ServerError = errors.ServerError

// ToolNotFoundError indicates a tools/call named an unregistered tool.
type ToolNotFoundError = errors.ToolNotFoundError

// ToolExecutionError indicates a tool's call operation failed.
type ToolExecutionError = errors.ToolExecutionError

// DecodeError indicates an inbound envelope could not be decoded.
type DecodeError = errors.DecodeError

// Re-export sentinel errors from internal package.
var (
	// ErrCallInProgress indicates a tool call is already running.
	ErrCallInProgress = errors.ErrCallInProgress

	// ErrNoActiveCall indicates a signal was delivered while idle.
	ErrNoActiveCall = errors.ErrNoActiveCall

	// ErrCallResolved indicates a signal arrived after the call resolved.
	ErrCallResolved = errors.ErrCallResolved
)
