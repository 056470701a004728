package domain

import (
	"encoding/json"
	"fmt"
)

// ToolInvocation names a tool on a provider and the arguments to call it with.
type ToolInvocation struct {
	Server    string         `json:"server"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// ContentBlock is one element of a successful tool payload.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the outcome of a tool call: either an opaque provider payload or an Error.
// The zero value is an empty successful payload.
//
// On the wire it is `{"content": [...]}` (or any other provider payload) on success and
// `{"error": "..."}` on failure.
type ToolResult struct {
	payload map[string]any
	err     *Error
}

// Ok wraps a provider payload.
func Ok(payload map[string]any) ToolResult {
	return ToolResult{payload: payload}
}

// Text builds the conventional single text-block payload.
func Text(text string) ToolResult {
	return Ok(map[string]any{
		"content": []any{
			map[string]any{"type": "text", "text": text},
		},
	})
}

// JSONText marshals v with indentation and wraps it as a text payload.
func JSONText(v any) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encode tool output: %w", err)
	}
	return Text(string(data)), nil
}

// Fail builds an Err result.
func Fail(kind ErrorKind, message string) ToolResult {
	return ToolResult{err: &Error{Kind: kind, Message: message}}
}

// Failf builds an Err result with a formatted message.
func Failf(kind ErrorKind, format string, args ...any) ToolResult {
	return ToolResult{err: NewError(kind, format, args...)}
}

// IsErr reports whether the result is an error.
func (r ToolResult) IsErr() bool {
	return r.err != nil
}

// Err returns the error side, or nil on success.
func (r ToolResult) Err() *Error {
	return r.err
}

// Payload returns the success payload, or nil on error.
func (r ToolResult) Payload() map[string]any {
	if r.err != nil {
		return nil
	}
	return r.payload
}

// FirstText returns the text of the first content block.
func (r ToolResult) FirstText() (string, bool) {
	if r.err != nil {
		return "", false
	}
	blocks, ok := r.payload["content"].([]any)
	if !ok || len(blocks) == 0 {
		return "", false
	}
	block, ok := blocks[0].(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := block["text"].(string)
	return text, ok
}

// String returns the canonical JSON encoding of the result.
func (r ToolResult) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}

func (r ToolResult) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(map[string]string{"error": r.err.Message})
	}
	if r.payload == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.payload)
}

// UnmarshalJSON decodes a provider payload. A top-level string "error" field makes the
// result an Err of kind KindBackend, since it was reported by the provider itself.
func (r *ToolResult) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("tool result must be a JSON object")
	}
	if msg, ok := m["error"].(string); ok {
		*r = Fail(KindBackend, msg)
		return nil
	}
	*r = Ok(m)
	return nil
}

// ToolDescriptor describes a tool for discovery through tools/list.
type ToolDescriptor struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	InputSchema InputSchema `json:"inputSchema" yaml:"inputSchema"`
}

// InputSchema is the JSON-Schema-like argument contract of a tool.
// It is informational only: the interpreter never validates against it.
type InputSchema struct {
	Type       string              `json:"type" yaml:"type"`
	Properties map[string]Property `json:"properties" yaml:"properties"`
	Required   []string            `json:"required,omitempty" yaml:"required,omitempty"`
}

// Property is a single primitive argument.
type Property struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
}
