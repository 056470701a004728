package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentcore/internal/logging"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/provider"
	"github.com/aretw0/agentcore/pkg/registry"
)

func testProvider(status provider.Status) *provider.Provider {
	reg := registry.MustNew(registry.Tool{
		Descriptor: domain.ToolDescriptor{Name: "ping", Description: "Reply with pong"},
		Handler: func(context.Context, map[string]any) domain.ToolResult {
			return domain.Text("pong")
		},
	})
	return provider.New("test", reg, status)
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return w, out
}

func TestDispatch_ToolsList(t *testing.T) {
	h := NewHandler(testProvider(provider.Ready()), logging.NewNop())

	w, out := post(t, h, `{"method":"tools/list"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	tools := out["tools"].([]any)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "ping", tool["name"])
	assert.Equal(t, "object", tool["inputSchema"].(map[string]any)["type"])
}

func TestDispatch_ToolsCall(t *testing.T) {
	h := NewHandler(testProvider(provider.Ready()), logging.NewNop())

	_, out := post(t, h, `{"method":"tools/call","params":{"name":"ping","arguments":{}}}`)
	assert.Equal(t, "pong", out["content"].([]any)[0].(map[string]any)["text"])

	_, out = post(t, h, `{"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
	assert.Equal(t, "Unknown tool: nope", out["error"])

	_, out = post(t, h, `{"method":"resources/list"}`)
	assert.Equal(t, "Unknown method", out["error"])
}

func TestDispatch_Unavailable(t *testing.T) {
	h := NewHandler(testProvider(provider.Unavailable("AWS credentials not configured")), logging.NewNop())

	_, out := post(t, h, `{"method":"tools/call","params":{"name":"ping","arguments":{}}}`)
	assert.Equal(t, "AWS credentials not configured", out["error"])

	_, out = post(t, h, `{"method":"tools/list"}`)
	assert.Len(t, out["tools"], 1)
}

func TestDispatch_MalformedBody(t *testing.T) {
	h := NewHandler(testProvider(provider.Ready()), logging.NewNop())

	w, out := post(t, h, `{not json`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, out["error"], "invalid request")
}

func TestGetHealth(t *testing.T) {
	for _, status := range []provider.Status{provider.Ready(), provider.Unavailable("AWS credentials not configured")} {
		h := NewHandler(testProvider(status), logging.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
		assert.Equal(t, "OK", w.Body.String())
	}
}

func TestGetStatus(t *testing.T) {
	h := NewHandler(testProvider(provider.Unavailable("Database not configured")), logging.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "unavailable", out["session"])
	assert.Equal(t, "Database not configured", out["reason"])
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(testProvider(provider.Ready()), logging.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POST, GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
