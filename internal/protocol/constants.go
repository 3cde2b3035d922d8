package protocol

// JSONRPCVersion is the only accepted JSON-RPC version.
const JSONRPCVersion = "2.0"

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2025-11-25"

// Built-in protocol methods.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// JSON-RPC error codes.
const (
	// ErrorParse indicates syntactically invalid input.
	ErrorParse = -32700

	// ErrorInvalidRequest indicates an invalid envelope shape or version.
	ErrorInvalidRequest = -32600

	// ErrorMethodNotFound indicates an unrecognized method. It is also used
	// for tools/call requests naming an unregistered tool.
	ErrorMethodNotFound = -32601

	// ErrorInvalidParams indicates missing or malformed parameters.
	ErrorInvalidParams = -32602

	// ErrorInternal indicates an unexpected server fault.
	ErrorInternal = -32603

	// ErrorBusy indicates a tools/call arrived while another call was
	// already running. Calls are never queued.
	ErrorBusy = -32000
)

// HTTP header names used by the streamable HTTP transport.
const (
	HeaderSessionID       = "Mcp-Session-Id"
	HeaderProtocolVersion = "MCP-Protocol-Version"
)
