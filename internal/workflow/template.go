package workflow

import (
	"fmt"

	"github.com/aretw0/agentcore/pkg/domain"
)

// StepKind identifies what a step does.
type StepKind string

const (
	StepTool    StepKind = "tool"
	StepReason  StepKind = "reasoning"
	StepExtract StepKind = "extract"
)

// Template is the ordered step list of one workflow.
type Template struct {
	Name     string
	Requires []Requirement
	Steps    []Step
}

// Requirement is a request parameter with no default. Its absence fails the request
// before any step runs.
type Requirement struct {
	Param   string
	Message string
}

// Step is one unit of execution.
type Step struct {
	Name string
	Kind StepKind

	// Tool steps.
	Server string
	Tool   string
	Args   []Arg

	// Reasoning steps: Prompt followed by the output of step Input.
	Prompt string
	Input  string

	// Extract steps: read Field from the JSON text of step Input into variable Into.
	Field string
	Into  string
}

// Recorded reports whether the step contributes an entry to the result.
func (s Step) Recorded() bool {
	return s.Kind != StepExtract
}

func (s Step) String() string {
	switch s.Kind {
	case StepTool:
		return fmt.Sprintf("%s = %s/%s", s.Name, s.Server, s.Tool)
	case StepReason:
		if len(s.Args) > 0 {
			return fmt.Sprintf("%s = reason(<%s>)", s.Name, s.Args[0].Name)
		}
		if s.Input == "" {
			return fmt.Sprintf("%s = reason(%q)", s.Name, s.Prompt)
		}
		return fmt.Sprintf("%s = reason(%q + %s)", s.Name, s.Prompt, s.Input)
	case StepExtract:
		return fmt.Sprintf("%s <- %s.%s", s.Into, s.Input, s.Field)
	}
	return s.Name
}

// Single reports whether the template yields the {workflow, result} shape.
func (t *Template) Single() bool {
	n := 0
	for _, s := range t.Steps {
		if s.Recorded() {
			n++
		}
	}
	return n == 1
}

// ToolCall builds a tool step.
func ToolCall(name, server, tool string, args ...Arg) Step {
	return Step{Name: name, Kind: StepTool, Server: server, Tool: tool, Args: args}
}

// Reason builds a reasoning step whose prompt is prompt followed by the output of input.
func Reason(name, prompt, input string) Step {
	return Step{Name: name, Kind: StepReason, Prompt: prompt, Input: input}
}

// ReasonParam builds a reasoning step whose whole prompt is a request parameter.
func ReasonParam(name, param, def string) Step {
	return Step{Name: name, Kind: StepReason, Args: []Arg{Param("prompt", param, def)}}
}

// Extract builds a step that reads field from the JSON text of a prior tool result.
func Extract(from, field, into string) Step {
	return Step{Name: "extract_" + into, Kind: StepExtract, Input: from, Field: field, Into: into}
}

// Arg is one named tool argument and the rule that produces its value.
type Arg struct {
	Name    string
	resolve func(*scope) any
}

// Param takes the value of request parameter param, or def when it is absent.
func Param(name, param string, def any) Arg {
	return Arg{Name: name, resolve: func(s *scope) any {
		return s.param(param, def)
	}}
}

// Format renders format with the value of request parameter param (or def).
func Format(name, format, param string, def any) Arg {
	return Arg{Name: name, resolve: func(s *scope) any {
		return fmt.Sprintf(format, s.param(param, def))
	}}
}

// Output passes the output of a prior step. Reasoning text passes as a string and tool
// results as their JSON object.
func Output(name, step string) Arg {
	return Arg{Name: name, resolve: func(s *scope) any {
		v := s.outputs[step]
		tr, ok := v.Tool()
		if !ok {
			return v.String()
		}
		if tr.IsErr() {
			return map[string]any{"error": tr.Err().Message}
		}
		return tr.Payload()
	}}
}

// Var passes a value produced by an extract step.
func Var(name, variable string) Arg {
	return Arg{Name: name, resolve: func(s *scope) any {
		return s.vars[variable]
	}}
}

// scope is the per-execution state threaded through the steps.
type scope struct {
	req     domain.WorkflowRequest
	outputs map[string]domain.Value
	vars    map[string]any
}

func newScope(req domain.WorkflowRequest) *scope {
	return &scope{
		req:     req,
		outputs: make(map[string]domain.Value),
		vars:    make(map[string]any),
	}
}

func (s *scope) param(name string, def any) any {
	if v, ok := s.req.Param(name); ok {
		return v
	}
	return def
}

func (s *scope) arguments(args []Arg) map[string]any {
	out := make(map[string]any, len(args))
	for _, a := range args {
		out[a.Name] = a.resolve(s)
	}
	return out
}
