package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallRequest_WireFormat(t *testing.T) {
	req, err := NewCallRequest("get_weather", map[string]any{"city": "Austin"})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"tools/call","params":{"name":"get_weather","arguments":{"city":"Austin"}}}`, string(data))
}

func TestNewCallRequest_NilArguments(t *testing.T) {
	req, err := NewCallRequest("list_s3_buckets", nil)
	require.NoError(t, err)

	var params CallParams
	require.NoError(t, req.DecodeParams(&params))
	assert.Equal(t, "list_s3_buckets", params.Name)
	assert.NotNil(t, params.Arguments)
}

func TestNewListRequest_OmitsParams(t *testing.T) {
	data, err := json.Marshal(NewListRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"tools/list"}`, string(data))
}

func TestDecodeParams(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"method":"tools/call","params":"oops"}`), &req))

	var params CallParams
	assert.ErrorContains(t, req.DecodeParams(&params), "tools/call")

	empty := Request{Method: MethodToolsCall, Params: json.RawMessage("null")}
	assert.NoError(t, empty.DecodeParams(&params))
}
