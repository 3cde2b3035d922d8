package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/workspace-mcp-go/internal/exec"
	"github.com/wagiedev/workspace-mcp-go/internal/registry"
)

func newTestHandler(t *testing.T) (*Handler, *registry.Registry, *exec.Tracker) {
	t.Helper()

	log := slog.Default()
	reg := registry.New(log)
	tracker := exec.NewTracker(log)
	handler := NewHandler(log, reg, tracker, ServerInfo{Name: "workspace-mcp", Version: "1.0.0"}, false)

	return handler, reg, tracker
}

func decodeResponse(t *testing.T, data []byte) map[string]any {
	t.Helper()

	require.NotNil(t, data)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	return decoded
}

func callRequest(id any, tool string, args map[string]any) []byte {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"params":  map[string]any{"name": tool, "arguments": args},
	}
	if id != nil {
		req["id"] = id
	}

	data, _ := json.Marshal(req)

	return data
}

func textTool(name string, fn registry.ToolFunc) registry.Tool {
	return registry.NewTool(name, "test tool", nil, registry.KindText, fn)
}

func TestHandle_ParseError(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(), []byte(`not json`)))

	assert.Nil(t, resp["id"])
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorParse), errObj["code"])
}

func TestHandle_InvalidVersion(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"1.0","id":3,"method":"tools/list"}`)))

	assert.Equal(t, float64(3), resp["id"])
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorInvalidRequest), errObj["code"])
}

func TestHandle_NonStringMethod(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":7,"method":123}`)))

	assert.Equal(t, float64(7), resp["id"])
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorInvalidRequest), errObj["code"])
}

func TestHandle_MalformedNotificationDropped(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	out := handler.Handle(context.Background(), []byte(`{"jsonrpc":"1.0","method":"tools/list"}`))
	assert.Nil(t, out)
}

func TestHandle_Initialize(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-11-25"}}`)))

	assert.Equal(t, float64(1), resp["id"])

	result := resp["result"].(map[string]any)
	assert.Equal(t, ProtocolVersion, result["protocolVersion"])

	caps := result["capabilities"].(map[string]any)
	assert.Contains(t, caps, "tools")

	info := result["serverInfo"].(map[string]any)
	assert.Equal(t, "workspace-mcp", info["name"])
	assert.Equal(t, "1.0.0", info["version"])
}

func TestHandle_InitializedNotification(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	out := handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))

	assert.Nil(t, out, "notifications produce no response")
}

func TestHandle_MethodNotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":5,"method":"resources/list"}`)))

	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorMethodNotFound), errObj["code"])
}

func TestHandle_ToolsListEmpty(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))

	result := resp["result"].(map[string]any)
	tools, ok := result["tools"].([]any)
	require.True(t, ok, "tools must be a well-formed list even when empty")
	assert.Empty(t, tools)
	assert.NotContains(t, resp, "error")
}

func TestHandle_ToolsList(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	reg.Register(registry.NewTool(
		"search_in_code",
		"searches code",
		registry.SimpleSchema(map[string]string{"query": "string"}),
		registry.KindText,
		func(_ context.Context, _ map[string]any) (any, error) { return "", nil },
	))

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))

	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	require.Len(t, tools, 1)

	tool := tools[0].(map[string]any)
	assert.Equal(t, "search_in_code", tool["name"])
	assert.Equal(t, "searches code", tool["description"])

	schema := tool["inputSchema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
}

func TestHandle_ToolsCall_Success(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	reg.Register(textTool("echo", func(_ context.Context, args map[string]any) (any, error) {
		return "echo: " + args["text"].(string), nil
	}))

	resp := decodeResponse(t, handler.Handle(context.Background(),
		callRequest(1, "echo", map[string]any{"text": "hello"})))

	assert.Equal(t, float64(1), resp["id"])

	result := resp["result"].(map[string]any)
	content := result["content"].([]any)
	require.Len(t, content, 1)

	item := content[0].(map[string]any)
	assert.Equal(t, "text", item["type"])
	assert.Equal(t, "echo: hello", item["text"])
}

func TestHandle_ToolsCall_MissingName(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"arguments":{}}}`)))

	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorInvalidParams), errObj["code"])
}

func TestHandle_ToolsCall_NoParams(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call"}`)))

	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorInvalidParams), errObj["code"])
}

func TestHandle_ToolsCall_UnknownTool(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	resp := decodeResponse(t, handler.Handle(context.Background(),
		callRequest(1, "does_not_exist", nil)))

	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorMethodNotFound), errObj["code"])
	assert.Equal(t, "tool not found: does_not_exist", errObj["message"])
}

func TestHandle_ToolsCall_DefaultsToEmptyArguments(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	var got map[string]any

	reg.Register(textTool("inspect", func(_ context.Context, args map[string]any) (any, error) {
		got = args

		return "ok", nil
	}))

	decodeResponse(t, handler.Handle(context.Background(),
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"inspect"}}`)))

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHandle_ToolsCall_ExecutionError(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	reg.Register(textTool("broken", func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("backend exploded")
	}))

	resp := decodeResponse(t, handler.Handle(context.Background(), callRequest(1, "broken", nil)))

	// Execution failures are tool-level results, not protocol errors.
	assert.NotContains(t, resp, "error")

	result := resp["result"].(map[string]any)
	assert.Equal(t, true, result["isError"])

	content := result["content"].([]any)
	item := content[0].(map[string]any)
	assert.Contains(t, item["text"], "backend exploded")
}

func TestHandle_ToolsCall_PanicRecovered(t *testing.T) {
	handler, reg, tracker := newTestHandler(t)

	reg.Register(textTool("panicky", func(_ context.Context, _ map[string]any) (any, error) {
		panic("boom")
	}))

	resp := decodeResponse(t, handler.Handle(context.Background(), callRequest(1, "panicky", nil)))

	result := resp["result"].(map[string]any)
	assert.Equal(t, true, result["isError"])

	// The slot must be released even after a panic.
	assert.False(t, tracker.Snapshot().Running)
}

func TestHandle_ToolsCall_Busy(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	started := make(chan struct{})
	release := make(chan struct{})

	reg.Register(textTool("debug_launch", func(_ context.Context, _ map[string]any) (any, error) {
		close(started)
		<-release

		return "launched", nil
	}))
	reg.Register(textTool("update_database", func(_ context.Context, _ map[string]any) (any, error) {
		return "updated", nil
	}))

	first := make(chan map[string]any, 1)

	go func() {
		first <- decodeResponse(t, handler.Handle(context.Background(),
			callRequest(1, "debug_launch", nil)))
	}()

	<-started

	resp := decodeResponse(t, handler.Handle(context.Background(),
		callRequest(2, "update_database", nil)))

	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrorBusy), errObj["code"])
	assert.Contains(t, errObj["message"], "in progress")

	// The first call is unaffected by the rejected one.
	close(release)

	select {
	case firstResp := <-first:
		assert.Equal(t, float64(1), firstResp["id"])
		result := firstResp["result"].(map[string]any)
		content := result["content"].([]any)
		assert.Equal(t, "launched", content[0].(map[string]any)["text"])
	case <-time.After(2 * time.Second):
		t.Fatal("first call did not complete")
	}
}

func TestHandle_ToolsCall_SignalInterception(t *testing.T) {
	handler, reg, tracker := newTestHandler(t)

	started := make(chan struct{})
	release := make(chan struct{})

	reg.Register(textTool("update_database", func(_ context.Context, _ map[string]any) (any, error) {
		close(started)
		<-release

		return "updated", nil
	}))

	respCh := make(chan map[string]any, 1)

	go func() {
		respCh <- decodeResponse(t, handler.Handle(context.Background(),
			callRequest("call-1", "update_database", nil)))
	}()

	<-started
	require.NoError(t, tracker.Deliver(exec.NewSignal(exec.KindCancel, "wrong database")))

	select {
	case resp := <-respCh:
		assert.Equal(t, "call-1", resp["id"])

		result := resp["result"].(map[string]any)
		content := result["content"].([]any)
		text := content[0].(map[string]any)["text"].(string)

		assert.Contains(t, text, "USER SIGNAL: wrong database")
		assert.Contains(t, text, "Signal Type: cancel")
		assert.Contains(t, text, "Tool: update_database")
		assert.Contains(t, text, "Elapsed:")
	case <-time.After(2 * time.Second):
		t.Fatal("signaled call did not resolve")
	}

	// The worker is still running in the background; let it finish.
	close(release)
}

func TestHandle_ToolsCall_NotificationProducesNothing(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	called := false

	reg.Register(textTool("echo", func(_ context.Context, _ map[string]any) (any, error) {
		called = true

		return "ok", nil
	}))

	out := handler.Handle(context.Background(), callRequest(nil, "echo", nil))

	assert.Nil(t, out)
	assert.False(t, called, "notifications do not dispatch tool work")
}

func TestHandle_ResponseIDMatchesRequest(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	reg.Register(textTool("echo", func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	}))

	ids := []any{1, "string-id", 9999999}
	for _, id := range ids {
		t.Run(fmt.Sprintf("%v", id), func(t *testing.T) {
			resp := decodeResponse(t, handler.Handle(context.Background(), callRequest(id, "echo", nil)))

			expected, _ := json.Marshal(id)
			actual, _ := json.Marshal(resp["id"])
			assert.JSONEq(t, string(expected), string(actual))
		})
	}
}

func TestRenderResult_Structured(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	reg.Register(registry.NewTool("list_projects", "lists projects", nil, registry.KindStructured,
		func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{"projects": []string{"Accounting", "Trade"}}, nil
		},
	))

	resp := decodeResponse(t, handler.Handle(context.Background(), callRequest(1, "list_projects", nil)))

	result := resp["result"].(map[string]any)
	structured := result["structuredContent"].(map[string]any)
	assert.Equal(t, []any{"Accounting", "Trade"}, structured["projects"])

	content := result["content"].([]any)
	assert.Equal(t, "Done", content[0].(map[string]any)["text"])
}

func TestRenderResult_Resource(t *testing.T) {
	handler, reg, _ := newTestHandler(t)

	reg.Register(registry.NewTool("get_tags", "lists tags", nil, registry.KindResource,
		func(_ context.Context, _ map[string]any) (any, error) {
			return "# Tags\n\n- core", nil
		},
	))

	resp := decodeResponse(t, handler.Handle(context.Background(), callRequest(1, "get_tags", nil)))

	result := resp["result"].(map[string]any)
	content := result["content"].([]any)
	item := content[0].(map[string]any)
	assert.Equal(t, "resource", item["type"])

	resource := item["resource"].(map[string]any)
	assert.Equal(t, "embedded://get_tags.md", resource["uri"])
	assert.Equal(t, "text/markdown", resource["mimeType"])
	assert.Equal(t, "# Tags\n\n- core", resource["text"])
}

func TestRenderResult_ResourcePlainTextMode(t *testing.T) {
	log := slog.Default()
	reg := registry.New(log)
	tracker := exec.NewTracker(log)
	handler := NewHandler(log, reg, tracker, ServerInfo{Name: "workspace-mcp", Version: "1.0.0"}, true)

	reg.Register(registry.NewTool("get_tags", "lists tags", nil, registry.KindResource,
		func(_ context.Context, _ map[string]any) (any, error) {
			return "# Tags", nil
		},
	))

	resp := decodeResponse(t, handler.Handle(context.Background(), callRequest(1, "get_tags", nil)))

	result := resp["result"].(map[string]any)
	content := result["content"].([]any)
	item := content[0].(map[string]any)
	assert.Equal(t, "text", item["type"])
	assert.Equal(t, "# Tags", item["text"])
}
