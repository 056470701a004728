// Package protocol defines the JSON request/response envelopes shared by the tool client,
// the tool providers and the front door.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/agentcore/pkg/domain"
)

const (
	MethodToolsList       = "tools/list"
	MethodToolsCall       = "tools/call"
	MethodWorkflowExecute = "workflow/execute"
)

// UnknownMethodMessage is returned for any method a server does not implement.
const UnknownMethodMessage = "Unknown method"

// Request is the envelope for every protocol call.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// CallParams are the params of a tools/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ListResult is the response body of tools/list.
type ListResult struct {
	Tools []domain.ToolDescriptor `json:"tools"`
}

// ErrorBody is the response body of a failed call.
type ErrorBody struct {
	Error string `json:"error"`
}

// NewCallRequest builds a tools/call envelope.
func NewCallRequest(name string, args map[string]any) (Request, error) {
	if args == nil {
		args = map[string]any{}
	}
	params, err := json.Marshal(CallParams{Name: name, Arguments: args})
	if err != nil {
		return Request{}, fmt.Errorf("encode call params: %w", err)
	}
	return Request{Method: MethodToolsCall, Params: params}, nil
}

// NewListRequest builds a tools/list envelope.
func NewListRequest() Request {
	return Request{Method: MethodToolsList}
}

// DecodeParams unmarshals the request params into v. Absent params leave v untouched.
func (r Request) DecodeParams(v any) error {
	if len(r.Params) == 0 || string(r.Params) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Params, v); err != nil {
		return fmt.Errorf("invalid params for %s: %w", r.Method, err)
	}
	return nil
}
