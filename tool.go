package workspacemcp

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/workspace-mcp-go/internal/registry"
)

// Re-export the tool contract from the internal package.
type (
	// Tool is the uniform contract every workspace capability satisfies:
	// a name, a description, a parameter schema, a response kind, and a
	// single synchronous call operation.
	Tool = registry.Tool

	// ResponseKind declares how a tool's result is shaped on the wire.
	ResponseKind = registry.ResponseKind

	// ToolFunc is the function signature for function-based tools.
	ToolFunc = registry.ToolFunc

	// ResourceNamer is optionally implemented by resource-kind tools to
	// name the embedded resource file.
	ResourceNamer = registry.ResourceNamer

	// Schema is a JSON Schema object for tool input validation.
	Schema = jsonschema.Schema
)

// Response kinds.
const (
	// KindText renders the result as plain text content.
	KindText = registry.KindText
	// KindStructured renders the result as structuredContent.
	KindStructured = registry.KindStructured
	// KindResource renders the result as an embedded resource.
	KindResource = registry.KindResource
)

// NewTool creates a Tool from a function.
//
// Example:
//
//	tool := workspacemcp.NewTool(
//	    "search_in_code",
//	    "Searches source modules for a substring",
//	    workspacemcp.SimpleSchema(map[string]string{"query": "string"}),
//	    workspacemcp.KindText,
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        query, _ := args["query"].(string)
//	        return runSearch(ctx, query)
//	    },
//	)
func NewTool(name, description string, schema *jsonschema.Schema, kind ResponseKind, fn ToolFunc) Tool {
	return registry.NewTool(name, description, schema, kind, fn)
}

// SimpleSchema creates a jsonschema.Schema from a simple type map.
//
// Input format: {"query": "string", "limit": "int"}
func SimpleSchema(props map[string]string) *jsonschema.Schema {
	return registry.SimpleSchema(props)
}
