package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	stderrors "errors"

	"github.com/wagiedev/workspace-mcp-go/internal/errors"
	"github.com/wagiedev/workspace-mcp-go/internal/exec"
	"github.com/wagiedev/workspace-mcp-go/internal/registry"
)

// Handler routes decoded envelopes to built-in methods and tool dispatch.
//
// The handler is stateless between calls; the per-call state lives in the
// execution tracker. Multiple goroutines may call Handle concurrently, and
// the tracker arbitrates the single tool-call slot across all of them.
type Handler struct {
	log       *slog.Logger
	registry  *registry.Registry
	tracker   *exec.Tracker
	info      ServerInfo
	plainText bool
}

// NewHandler creates a protocol handler.
//
// When plainText is set, resource-kind tool results are rendered as plain
// text content instead of embedded resources, for clients that do not
// understand resource payloads.
func NewHandler(
	log *slog.Logger,
	reg *registry.Registry,
	tracker *exec.Tracker,
	info ServerInfo,
	plainText bool,
) *Handler {
	return &Handler{
		log:       log.With("component", "protocol"),
		registry:  reg,
		tracker:   tracker,
		info:      info,
		plainText: plainText,
	}
}

// Handle processes one raw envelope and returns the encoded response, or
// nil when the input was a notification and no output is owed.
//
// Every request with an id yields exactly one response; no error below the
// tool contract boundary escapes as a fault.
func (h *Handler) Handle(ctx context.Context, data []byte) []byte {
	req, err := Decode(data)
	if err != nil {
		h.log.Warn("Failed to parse envelope", "error", err)

		// Best-effort id:null is required for unparsable input.
		return h.encode(NewErrorResponse(nil, ErrorParse, "parse error"))
	}

	if err := req.Validate(); err != nil {
		if req.IsNotification() {
			h.log.Debug("Dropping malformed notification", "error", err)

			return nil
		}

		return h.encode(NewErrorResponse(req.ID, ErrorInvalidRequest, err.Error()))
	}

	h.log.Debug("Dispatching request", "method", req.Method, "notification", req.IsNotification())

	if req.IsNotification() {
		// Notifications produce no output, success or failure. Tool work is
		// never dispatched for them: a call with nobody to answer would
		// occupy the slot for nothing.
		if req.Method != MethodInitialized {
			h.log.Debug("Ignoring notification", "method", req.Method)
		}

		return nil
	}

	switch req.Method {
	case MethodInitialize:
		return h.encode(NewResponse(req.ID, &InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    Capabilities{},
			ServerInfo:      h.info,
		}))

	case MethodToolsList:
		return h.encode(NewResponse(req.ID, h.listTools()))

	case MethodToolsCall:
		return h.encode(h.handleToolCall(ctx, req))

	default:
		return h.encode(NewErrorResponse(req.ID, ErrorMethodNotFound, "method not found"))
	}
}

// listTools enumerates the registry. An empty registry yields an empty but
// well-formed list.
func (h *Handler) listTools() *ToolsListResult {
	tools := h.registry.List()

	result := &ToolsListResult{
		Tools: make([]ToolInfo, 0, len(tools)),
	}

	for _, tool := range tools {
		result.Tools = append(result.Tools, ToolInfo{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}

	return result
}

// callParams is the expected shape of tools/call params.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// handleToolCall resolves the tool, opens the call slot, and races the
// worker against operator signal delivery.
func (h *Handler) handleToolCall(ctx context.Context, req *Request) *Response {
	var params callParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, ErrorInvalidParams, "invalid params: "+err.Error())
		}
	}

	if params.Name == "" {
		return NewErrorResponse(req.ID, ErrorInvalidParams, "missing tool name")
	}

	tool, ok := h.registry.Lookup(params.Name)
	if !ok {
		notFound := &errors.ToolNotFoundError{Name: params.Name}

		return NewErrorResponse(req.ID, ErrorMethodNotFound, notFound.Error())
	}

	args := params.Arguments
	if args == nil {
		args = make(map[string]any)
	}

	h.log.Info("Processing tools/call", "tool", tool.Name())

	outcome, err := h.tracker.Run(ctx, tool.Name(), func(ctx context.Context) (value any, callErr error) {
		// A panicking tool must not take down the handler or leak the slot.
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("tool panicked: %v", r)
			}
		}()

		return tool.Call(ctx, args)
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrCallInProgress) {
			return NewErrorResponse(req.ID, ErrorBusy, err.Error())
		}

		return NewErrorResponse(req.ID, ErrorInternal, err.Error())
	}

	switch outcome.State {
	case exec.StateSignaled:
		return NewResponse(req.ID, TextResult(signalText(outcome)))

	case exec.StateFailed:
		execErr := &errors.ToolExecutionError{Tool: tool.Name(), Err: outcome.Err}

		return NewResponse(req.ID, ErrorCallResult(execErr.Error()))

	default:
		return NewResponse(req.ID, h.renderResult(tool, outcome.Value, args))
	}
}

// renderResult routes a completed worker value into the response shape
// declared by the tool's response kind. The value's semantics are opaque
// to the protocol layer.
func (h *Handler) renderResult(tool registry.Tool, value any, args map[string]any) *CallResult {
	switch tool.ResponseKind() {
	case registry.KindStructured:
		return StructuredResult(value)

	case registry.KindResource:
		text := valueText(value)
		if h.plainText {
			return TextResult(text)
		}

		return ResourceResult(registry.ResultFileName(tool, args), "text/markdown", text)

	default:
		return TextResult(valueText(value))
	}
}

// valueText renders a tool result value as text. Strings pass through;
// anything else is serialized as JSON.
func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(data)
	}
}

// signalText formats the payload for a signal-terminated call, embedding
// the signal kind, the operator message, the tool name, and elapsed time.
func signalText(outcome exec.Outcome) string {
	return fmt.Sprintf(
		"USER SIGNAL: %s\n\nSignal Type: %s\nTool: %s\nElapsed: %ds\n\nNote: The workspace operation may still be running in background.",
		outcome.Signal.Message,
		outcome.Signal.Kind,
		outcome.ToolName,
		int(outcome.Elapsed.Seconds()),
	)
}

// encode serializes a response, falling back to an internal error envelope
// when marshalling fails.
func (h *Handler) encode(resp *Response) []byte {
	data, err := Encode(resp)
	if err != nil {
		h.log.Error("Failed to encode response", "error", err)

		fallback, _ := Encode(NewErrorResponse(resp.ID, ErrorInternal, "encoding failure"))

		return fallback
	}

	return data
}
