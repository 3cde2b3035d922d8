package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wagiedev/workspace-mcp-go/internal/errors"
)

// Request is one decoded JSON-RPC request or notification envelope.
//
// Wire format:
//
//	{
//	  "jsonrpc": "2.0",
//	  "id": 1,
//	  "method": "tools/call",
//	  "params": {"name": "search_in_code", "arguments": {...}}
//	}
//
// A request with no id is a notification and never produces a response.
// The envelope is immutable after decode.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(r.ID, []byte("null"))
}

// Validate checks the envelope shape beyond JSON syntax: the protocol
// version must match and the method must be a non-empty string.
func (r *Request) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("invalid JSON-RPC version, expected %s", JSONRPCVersion)
	}

	if r.Method == "" {
		return fmt.Errorf("missing or non-string method")
	}

	return nil
}

// Response is one JSON-RPC response envelope. Exactly one of Result or
// Error is set. The id always equals the triggering request's id; a null
// id is emitted only when the input was unparsable.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Decode parses a raw envelope. A syntactically invalid payload yields a
// DecodeError preserving the raw input; shape validation is a separate
// step (Request.Validate) so that a decodable id can still be echoed back.
func Decode(data []byte) (*Request, error) {
	// jsonrpc and method are decoded loosely: a non-string value there is
	// a shape error, not a syntax error, and the id must survive so it can
	// be echoed on the invalid-request response.
	var wire struct {
		JSONRPC json.RawMessage `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  json.RawMessage `json:"method"`
		Params  json.RawMessage `json:"params"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &errors.DecodeError{
			RawData: string(data),
			Err:     err,
		}
	}

	req := &Request{
		ID:     wire.ID,
		Params: wire.Params,
	}

	// Non-string fields leave the zero value for Validate to reject.
	_ = json.Unmarshal(wire.JSONRPC, &req.JSONRPC)
	_ = json.Unmarshal(wire.Method, &req.Method)

	return req, nil
}

// Encode serializes a response envelope.
func Encode(resp *Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}

	return data, nil
}

// NewResponse creates a success response bound to the given request id.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response bound to the given request id.
// A nil id marshals as null, which is permitted only for unparsable input.
func NewErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	}
}
