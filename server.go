package workspacemcp

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/wagiedev/workspace-mcp-go/internal/exec"
	"github.com/wagiedev/workspace-mcp-go/internal/protocol"
	"github.com/wagiedev/workspace-mcp-go/internal/registry"
)

// Options configures a Server.
type Options struct {
	// Logger receives structured log output. If nil, logging is disabled.
	Logger *slog.Logger

	// Name and Version identify the server in initialize responses.
	// Defaults: "workspace-mcp" / "1.0.0".
	Name    string
	Version string

	// PlainText renders resource-kind tool results as plain text content
	// instead of embedded resources, for clients that do not understand
	// resource payloads.
	PlainText bool
}

// Status is a read-only snapshot of the execution tracker, exposed for the
// host UI (status bar, dialogs).
type Status = exec.Status

// Server is the protocol-handling engine. It is safe for concurrent use:
// multiple transport goroutines may call HandleMessage at once, and the
// execution tracker enforces the single in-flight tool call across them.
type Server struct {
	log      *slog.Logger
	registry *registry.Registry
	tracker  *exec.Tracker
	handler  *protocol.Handler

	requests atomic.Int64
}

// New creates a server with no registered tools.
func New(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}

	log := opts.Logger
	if log == nil {
		log = NopLogger()
	}

	name := opts.Name
	if name == "" {
		name = "workspace-mcp"
	}

	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}

	reg := registry.New(log)
	tracker := exec.NewTracker(log)

	return &Server{
		log:      log.With("component", "server"),
		registry: reg,
		tracker:  tracker,
		handler: protocol.NewHandler(log, reg, tracker, protocol.ServerInfo{
			Name:    name,
			Version: version,
		}, opts.PlainText),
	}
}

// RegisterTool adds a tool, atomically replacing any prior tool with the
// same name. Tools may be registered while calls are in flight.
func (s *Server) RegisterTool(tool Tool) {
	s.registry.Register(tool)
}

// UnregisterTool removes a tool if present.
func (s *Server) UnregisterTool(name string) {
	s.registry.Unregister(name)
}

// ToolCount returns the number of registered tools.
func (s *Server) ToolCount() int {
	return s.registry.Len()
}

// HandleMessage processes one raw protocol envelope and returns the
// encoded response, or nil when the input was a notification.
//
// A tools/call blocks until the tool's worker finishes or an operator
// signal arrives, whichever happens first.
func (s *Server) HandleMessage(ctx context.Context, data []byte) []byte {
	s.requests.Add(1)

	return s.handler.Handle(ctx, data)
}

// DeliverSignal injects an operator signal into the currently running tool
// call. It is safe to call at any time; with no call running it returns
// ErrNoActiveCall, and after the call resolved it returns ErrCallResolved.
//
// An empty message selects the default message for the signal kind.
func (s *Server) DeliverSignal(kind SignalKind, message string) error {
	return s.tracker.Deliver(exec.NewSignal(kind, message))
}

// Status returns a snapshot of the current call: whether one is running,
// its tool name, and elapsed time.
func (s *Server) Status() Status {
	return s.tracker.Snapshot()
}

// RequestCount returns the number of envelopes processed since creation.
func (s *Server) RequestCount() int64 {
	return s.requests.Load()
}
