// Package workspacemcp implements an in-process MCP server embedded inside
// an IDE host, exposing workspace introspection and workspace actions to
// AI-agent clients over JSON-RPC 2.0 envelopes.
//
// The server processes the built-in methods initialize,
// notifications/initialized, tools/list, and tools/call, and dispatches
// tools/call requests to registered tools through a single-occupancy
// execution slot: at most one tool call runs at a time, and a second call
// is rejected with a busy error rather than queued.
//
// The distinguishing capability is interruptible execution. A human
// operator can deliver a Signal to the running call at any moment; the
// call then resolves immediately with a payload describing the signal,
// while the underlying workspace operation keeps running in the background
// and its eventual result is discarded. The worker-vs-signal race is
// settled by an atomic state transition, so exactly one terminal outcome
// is ever produced per call.
//
// Basic usage:
//
//	server := workspacemcp.New(&workspacemcp.Options{
//	    Name:    "workspace-mcp",
//	    Version: "1.0.0",
//	})
//
//	server.RegisterTool(workspacemcp.NewTool(
//	    "get_version", "Returns the workspace version",
//	    nil, workspacemcp.KindText,
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        return "1.0.0", nil
//	    },
//	))
//
//	out := server.HandleMessage(ctx, rawEnvelope) // nil for notifications
//
// Signal delivery from a UI control:
//
//	err := server.DeliverSignal(workspacemcp.SignalCancel, "stop, wrong project")
package workspacemcp
