package registry

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// ResponseKind declares how a tool's result is shaped on the wire.
type ResponseKind string

const (
	// KindText renders the result as plain text content.
	KindText ResponseKind = "text"
	// KindStructured renders the result as structuredContent.
	KindStructured ResponseKind = "structured"
	// KindResource renders the result as an embedded resource with a MIME type.
	KindResource ResponseKind = "resource"
)

// Tool is the uniform contract every workspace capability satisfies.
//
// The protocol core never inspects the semantics of a tool's result; it
// only routes the value into the response shape declared by ResponseKind.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description sent to clients.
	Description() string

	// InputSchema returns the JSON Schema describing accepted arguments.
	InputSchema() *jsonschema.Schema

	// ResponseKind returns how the result is rendered on the wire.
	ResponseKind() ResponseKind

	// Call executes the tool. The context is advisory: the protocol layer
	// never force-terminates a call, and the backing operation may
	// legitimately keep running after the protocol-level call resolves.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ResourceNamer is optionally implemented by resource-kind tools to name
// the embedded resource file. Tools without it get "<name>.md".
type ResourceNamer interface {
	ResultFileName(args map[string]any) string
}

// ToolFunc is the function signature for function-based tools.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// funcTool is the function-based Tool implementation.
type funcTool struct {
	name        string
	description string
	schema      *jsonschema.Schema
	kind        ResponseKind
	fn          ToolFunc
}

// Compile-time verification that *funcTool implements Tool.
var _ Tool = (*funcTool)(nil)

// NewTool creates a Tool from a function.
func NewTool(name, description string, schema *jsonschema.Schema, kind ResponseKind, fn ToolFunc) Tool {
	return &funcTool{
		name:        name,
		description: description,
		schema:      schema,
		kind:        kind,
		fn:          fn,
	}
}

func (t *funcTool) Name() string                    { return t.name }
func (t *funcTool) Description() string             { return t.description }
func (t *funcTool) InputSchema() *jsonschema.Schema { return t.schema }
func (t *funcTool) ResponseKind() ResponseKind      { return t.kind }

func (t *funcTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// ResultFileName names the embedded resource produced by a resource-kind
// tool, honoring ResourceNamer when the tool implements it.
func ResultFileName(t Tool, args map[string]any) string {
	if namer, ok := t.(ResourceNamer); ok {
		if name := namer.ResultFileName(args); name != "" {
			return name
		}
	}

	return t.Name() + ".md"
}
