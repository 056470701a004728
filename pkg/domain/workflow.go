package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// WorkflowRequest is the caller's workflow descriptor.
// Task decides routing; Params holds every other key of the request.
type WorkflowRequest struct {
	Task   string         `mapstructure:"task"`
	Params map[string]any `mapstructure:",remain"`
}

// DecodeRequest builds a WorkflowRequest from a decoded JSON object.
// A missing task key yields ErrTaskRequired; a present but empty task is accepted.
func DecodeRequest(raw map[string]any) (WorkflowRequest, error) {
	var req WorkflowRequest
	if _, ok := raw["task"]; !ok {
		return req, ErrTaskRequired
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &req,
		TagName: "mapstructure",
	})
	if err != nil {
		return req, err
	}
	if err := dec.Decode(raw); err != nil {
		return req, fmt.Errorf("decode workflow request: %w", err)
	}
	if req.Params == nil {
		req.Params = map[string]any{}
	}
	return req, nil
}

// Param returns a request parameter. Explicit JSON nulls count as absent.
func (r WorkflowRequest) Param(key string) (any, bool) {
	v, ok := r.Params[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Value is a step output: either a ToolResult or reasoning text.
type Value struct {
	tool   *ToolResult
	text   string
	isText bool
}

// ToolValue wraps a tool result.
func ToolValue(r ToolResult) Value {
	return Value{tool: &r}
}

// TextValue wraps reasoning text.
func TextValue(s string) Value {
	return Value{text: s, isText: true}
}

// Tool returns the wrapped tool result, if any.
func (v Value) Tool() (ToolResult, bool) {
	if v.tool == nil {
		return ToolResult{}, false
	}
	return *v.tool, true
}

// String renders the value for interpolation into a prompt.
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	if v.tool != nil {
		return v.tool.String()
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.tool != nil {
		return json.Marshal(*v.tool)
	}
	return json.Marshal(v.text)
}

// StepResult is one entry of a multi-step result, in execution order.
type StepResult struct {
	Step   string `json:"step"`
	Result Value  `json:"result"`
}

// WorkflowResult is returned by the interpreter. Exactly one shape is populated:
//
//	{workflow, result}  single-step
//	{workflow, steps}   multi-step
//	{error}             routing or request failure
//	{workflow, error}   a multi-step workflow aborted on an extraction failure
type WorkflowResult struct {
	Workflow string       `json:"workflow,omitempty"`
	Result   *Value       `json:"result,omitempty"`
	Steps    []StepResult `json:"steps,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// SingleResult builds the single-step shape.
func SingleResult(workflow string, v Value) WorkflowResult {
	return WorkflowResult{Workflow: workflow, Result: &v}
}

// MultiResult builds the multi-step shape.
func MultiResult(workflow string, steps []StepResult) WorkflowResult {
	return WorkflowResult{Workflow: workflow, Steps: steps}
}

// FailureResult builds the bare error shape.
func FailureResult(message string) WorkflowResult {
	return WorkflowResult{Error: message}
}

// AbortedResult builds the error shape of a workflow that stopped early.
func AbortedResult(workflow, message string) WorkflowResult {
	return WorkflowResult{Workflow: workflow, Error: message}
}

// IsError reports whether the result carries an error.
func (r WorkflowResult) IsError() bool {
	return r.Error != ""
}
