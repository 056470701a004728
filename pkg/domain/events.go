package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventWorkflowStart EventType = "workflow_start"
	EventWorkflowEnd   EventType = "workflow_end"
	EventStepEnd       EventType = "step_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// WorkflowEvent reports the start or end of one execution.
type WorkflowEvent struct {
	EventBase
	Task      string        `json:"task"`
	Workflow  string        `json:"workflow,omitempty"`
	Outcome   string        `json:"outcome,omitempty"` // set on end: "ok", "error" or "unrouted"
	// ErrorKind is set on end when the interpreter itself stopped the workflow: routing, a missing
	// required parameter or an extraction. Tool errors recorded as step results leave it empty.
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// StepEvent reports a completed step.
type StepEvent struct {
	EventBase
	Workflow string        `json:"workflow"`
	Step     string        `json:"step"`
	Kind     string        `json:"kind"`
	IsError  bool          `json:"is_error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for interpreter observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnWorkflowStart func(context.Context, *WorkflowEvent)
	OnWorkflowEnd   func(context.Context, *WorkflowEvent)
	OnStepEnd       func(context.Context, *StepEvent)
}
