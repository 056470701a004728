package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/protocol"
)

func echoServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req protocol.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		switch req.Method {
		case protocol.MethodToolsList:
			_ = json.NewEncoder(w).Encode(protocol.ListResult{Tools: []domain.ToolDescriptor{{Name: "echo"}}})
		case protocol.MethodToolsCall:
			var p protocol.CallParams
			require.NoError(t, req.DecodeParams(&p))
			if p.Name == "broken" {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(protocol.ErrorBody{Error: "backend exploded"})
				return
			}
			_ = json.NewEncoder(w).Encode(domain.Text(p.Name + ":" + p.Arguments["city"].(string)))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInvoke_RoundTrip(t *testing.T) {
	var hits atomic.Int32
	srv := echoServer(t, &hits)
	c := New(map[string]string{"custom": srv.URL})

	res := c.Invoke(context.Background(), domain.ToolInvocation{
		Server:    "custom",
		Tool:      "get_weather",
		Arguments: map[string]any{"city": "Austin"},
	})
	require.False(t, res.IsErr())
	text, ok := res.FirstText()
	require.True(t, ok)
	assert.Equal(t, "get_weather:Austin", text)
}

func TestInvoke_ErrorBodyPassesThrough(t *testing.T) {
	var hits atomic.Int32
	srv := echoServer(t, &hits)
	c := New(map[string]string{"custom": srv.URL})

	res := c.Invoke(context.Background(), domain.ToolInvocation{Server: "custom", Tool: "broken"})
	require.True(t, res.IsErr())
	assert.Equal(t, "backend exploded", res.Err().Message)
}

func TestInvoke_UnknownServerMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := echoServer(t, &hits)
	c := New(map[string]string{"custom": srv.URL})

	res := c.Invoke(context.Background(), domain.ToolInvocation{Server: "nope", Tool: "x"})
	require.True(t, res.IsErr())
	assert.Equal(t, "Unknown MCP server: nope", res.Err().Message)
	assert.Equal(t, domain.KindUnknownProvider, res.Err().Kind)
	assert.Zero(t, hits.Load())

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Unknown MCP server: nope"}`, string(data))
}

func TestInvoke_TransportFailureIsData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(map[string]string{"aws": url})
	res := c.Invoke(context.Background(), domain.ToolInvocation{Server: "aws", Tool: "list_s3_buckets"})
	require.True(t, res.IsErr())
	assert.Equal(t, domain.KindTransport, res.Err().Kind)
	assert.NotEmpty(t, res.Err().Message)
}

func TestInvoke_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(map[string]string{"aws": srv.URL})
	res := c.Invoke(context.Background(), domain.ToolInvocation{Server: "aws", Tool: "list_s3_buckets"})
	require.True(t, res.IsErr())
	assert.Equal(t, domain.KindTransport, res.Err().Kind)
	assert.Contains(t, res.Err().Message, "malformed response from aws")
}

func TestInvoke_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(map[string]string{"slow": srv.URL}, WithTimeout(50*time.Millisecond))
	start := time.Now()
	res := c.Invoke(context.Background(), domain.ToolInvocation{Server: "slow", Tool: "x"})
	require.True(t, res.IsErr())
	assert.Equal(t, domain.KindTransport, res.Err().Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestInvoke_CallerCancellationDoesNotAbort(t *testing.T) {
	var hits atomic.Int32
	srv := echoServer(t, &hits)
	c := New(map[string]string{"custom": srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.Invoke(ctx, domain.ToolInvocation{
		Server:    "custom",
		Tool:      "get_weather",
		Arguments: map[string]any{"city": "Oslo"},
	})
	require.False(t, res.IsErr(), "result: %v", res)
	assert.EqualValues(t, 1, hits.Load())
}

func TestList(t *testing.T) {
	var hits atomic.Int32
	srv := echoServer(t, &hits)
	c := New(map[string]string{"custom": srv.URL})

	tools, err := c.List(context.Background(), "custom")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Name)

	_, err = c.List(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestServers(t *testing.T) {
	endpoints := map[string]string{"k8s": "http://b", "aws": "http://a"}
	c := New(endpoints)
	endpoints["custom"] = "http://c"

	assert.Equal(t, []string{"aws", "k8s"}, c.Servers())
	url, ok := c.Endpoint("aws")
	assert.True(t, ok)
	assert.Equal(t, "http://a", url)
}
