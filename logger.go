package workspacemcp

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output. It is the default
// when Options.Logger is nil, so embedding hosts stay silent unless they
// opt in.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
