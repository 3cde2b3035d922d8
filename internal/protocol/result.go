package protocol

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// InitializeResult is the result of the initialize method.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities advertises what the server supports.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability is empty; its presence signals tool support.
type ToolsCapability struct{}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsListResult is the result of the tools/list method.
type ToolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ToolInfo describes one registered tool.
type ToolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema,omitempty"`
}

// CallResult is the result of a tools/call method.
type CallResult struct {
	Content           []ContentItem `json:"content"`
	StructuredContent any           `json:"structuredContent,omitempty"`
	IsError           bool          `json:"isError,omitempty"`
}

// ContentItem is one piece of tool result content.
type ContentItem struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	Resource *ResourceInfo `json:"resource,omitempty"`
}

// ResourceInfo is an embedded resource payload.
type ResourceInfo struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
}

// TextResult creates a call result with plain text content.
func TextResult(text string) *CallResult {
	return &CallResult{
		Content: []ContentItem{{Type: "text", Text: text}},
	}
}

// StructuredResult creates a call result carrying structuredContent.
func StructuredResult(value any) *CallResult {
	return &CallResult{
		Content:           []ContentItem{{Type: "text", Text: "Done"}},
		StructuredContent: value,
	}
}

// ResourceResult creates a call result with an embedded resource.
func ResourceResult(fileName, mimeType, text string) *CallResult {
	return &CallResult{
		Content: []ContentItem{{
			Type: "resource",
			Resource: &ResourceInfo{
				URI:      "embedded://" + fileName,
				MIMEType: mimeType,
				Text:     text,
			},
		}},
	}
}

// ErrorCallResult creates a call result marking a tool execution failure.
// Execution failures are tool-level outcomes, never protocol-level errors.
func ErrorCallResult(message string) *CallResult {
	return &CallResult{
		Content: []ContentItem{{Type: "text", Text: message}},
		IsError: true,
	}
}
