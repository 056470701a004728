package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/agentcore/internal/logging"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/ports"
)

// UnknownWorkflowMessage is the routing error returned when no binding matches.
const UnknownWorkflowMessage = "Unknown workflow"

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeUnrouted = "unrouted"
)

// Interpreter executes workflow requests. It holds no per-request state and is safe for
// concurrent use.
type Interpreter struct {
	bindings []Binding
	tools    ports.ToolInvoker
	reasoner ports.Reasoner
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithBindings replaces the shipped routing table.
func WithBindings(bindings []Binding) Option {
	return func(in *Interpreter) {
		in.bindings = bindings
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(in *Interpreter) {
		in.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// New creates an interpreter over a tool invoker and a reasoner.
func New(tools ports.ToolInvoker, reasoner ports.Reasoner, opts ...Option) *Interpreter {
	in := &Interpreter{
		bindings: DefaultBindings(),
		tools:    tools,
		reasoner: reasoner,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Bindings returns the routing table in priority order.
func (in *Interpreter) Bindings() []Binding {
	return in.bindings
}

// Route returns the template selected for task.
func (in *Interpreter) Route(task string) (*Template, bool) {
	return route(in.bindings, task)
}

func route(bindings []Binding, task string) (*Template, bool) {
	for _, b := range bindings {
		if !b.Matcher.Matches(task) {
			continue
		}
		if b.Template != nil {
			return b.Template, true
		}
		// A matched group without a matching branch is still a routing miss.
		return route(b.Branches, task)
	}
	return nil, false
}

// ExecuteRaw decodes a request object and executes it. A request without a task
// yields {error: "task is required"}.
func (in *Interpreter) ExecuteRaw(ctx context.Context, raw map[string]any) domain.WorkflowResult {
	req, err := domain.DecodeRequest(raw)
	if err != nil {
		return domain.FailureResult(err.Error())
	}
	return in.Execute(ctx, req)
}

// Execute runs one workflow request. It never fails: every error is part of the result.
func (in *Interpreter) Execute(ctx context.Context, req domain.WorkflowRequest) domain.WorkflowResult {
	start := time.Now()
	in.emitWorkflow(ctx, in.hooks.OnWorkflowStart, domain.EventWorkflowStart, req.Task, "", "", "", 0)

	logger := logging.FromContext(ctx, in.logger)

	tmpl, ok := in.Route(req.Task)
	if !ok {
		failure := domain.NewError(domain.KindRouting, "%s", UnknownWorkflowMessage)
		logger.InfoContext(ctx, "No workflow matched", "task", req.Task, "kind", failure.Kind)
		in.emitWorkflow(ctx, in.hooks.OnWorkflowEnd, domain.EventWorkflowEnd, req.Task, "", OutcomeUnrouted, failure.Kind, time.Since(start))
		return domain.FailureResult(failure.Message)
	}

	logger = logger.With("workflow", tmpl.Name)
	logger.InfoContext(ctx, "Executing workflow", "task", req.Task)

	result, kind := in.run(ctx, logger, tmpl, req)

	outcome := OutcomeOK
	if result.IsError() {
		outcome = OutcomeError
	}
	elapsed := time.Since(start)
	logger.InfoContext(ctx, "Workflow finished", "outcome", outcome, "duration", elapsed)
	in.emitWorkflow(ctx, in.hooks.OnWorkflowEnd, domain.EventWorkflowEnd, req.Task, tmpl.Name, outcome, kind, elapsed)
	return result
}

// run executes the template's steps. The returned kind is set when the interpreter itself
// stopped the workflow.
func (in *Interpreter) run(ctx context.Context, logger *slog.Logger, tmpl *Template, req domain.WorkflowRequest) (domain.WorkflowResult, domain.ErrorKind) {
	for _, r := range tmpl.Requires {
		if _, ok := req.Param(r.Param); !ok {
			logger.InfoContext(ctx, "Missing required parameter", "param", r.Param, "kind", domain.KindInvalidRequest)
			return domain.FailureResult(r.Message), domain.KindInvalidRequest
		}
	}

	sc := newScope(req)
	steps := make([]domain.StepResult, 0, len(tmpl.Steps))

	for _, step := range tmpl.Steps {
		stepStart := time.Now()

		if step.Kind == StepExtract {
			if err := in.extract(sc, step); err != nil {
				failure := domain.NewError(domain.KindExtraction, "%v", err)
				logger.WarnContext(ctx, "Extraction failed, aborting workflow", "step", step.Input, "field", step.Field, "kind", failure.Kind, "err", err)
				in.emitStep(ctx, tmpl.Name, step, true, time.Since(stepStart))
				return domain.AbortedResult(tmpl.Name, failure.Message), failure.Kind
			}
			continue
		}

		value := in.runStep(ctx, sc, step)
		sc.outputs[step.Name] = value
		steps = append(steps, domain.StepResult{Step: step.Name, Result: value})

		isErr := false
		if tr, ok := value.Tool(); ok && tr.IsErr() {
			isErr = true
			logger.DebugContext(ctx, "Step recorded an error", "step", step.Name, "err", tr.Err().Message)
		}
		in.emitStep(ctx, tmpl.Name, step, isErr, time.Since(stepStart))
	}

	if tmpl.Single() && len(steps) == 1 {
		return domain.SingleResult(tmpl.Name, steps[0].Result), ""
	}
	return domain.MultiResult(tmpl.Name, steps), ""
}

func (in *Interpreter) runStep(ctx context.Context, sc *scope, step Step) domain.Value {
	switch step.Kind {
	case StepTool:
		return domain.ToolValue(in.tools.Invoke(ctx, domain.ToolInvocation{
			Server:    step.Server,
			Tool:      step.Tool,
			Arguments: sc.arguments(step.Args),
		}))
	case StepReason:
		return domain.TextValue(in.reasoner.Generate(ctx, prompt(sc, step)))
	default:
		return domain.ToolValue(domain.Failf(domain.KindInvalidRequest, "unsupported step kind %q", step.Kind))
	}
}

func prompt(sc *scope, step Step) string {
	if len(step.Args) > 0 {
		return fmt.Sprint(step.Args[0].resolve(sc))
	}
	return step.Prompt + sc.outputs[step.Input].String()
}

var errNoText = errors.New("result has no text content")

// extract parses the first text block of a prior tool result as a JSON object and stores
// one of its fields as a variable.
func (in *Interpreter) extract(sc *scope, step Step) error {
	v, ok := sc.outputs[step.Input]
	if !ok {
		return fmt.Errorf("step %s has not run", step.Input)
	}
	tr, ok := v.Tool()
	if !ok {
		return fmt.Errorf("step %s did not produce a tool result", step.Input)
	}
	if tr.IsErr() {
		return fmt.Errorf("cannot read %s: %s", step.Field, tr.Err().Message)
	}
	text, ok := tr.FirstText()
	if !ok {
		return fmt.Errorf("cannot read %s: %w", step.Field, errNoText)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return fmt.Errorf("cannot read %s: invalid JSON: %w", step.Field, err)
	}
	field, ok := obj[step.Field]
	if !ok || field == nil {
		return fmt.Errorf("cannot read %s: field missing", step.Field)
	}
	sc.vars[step.Into] = field
	return nil
}

func (in *Interpreter) emitWorkflow(ctx context.Context, hook func(context.Context, *domain.WorkflowEvent), typ domain.EventType, task, workflow, outcome string, kind domain.ErrorKind, d time.Duration) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.WorkflowEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		Task:      task,
		Workflow:  workflow,
		Outcome:   outcome,
		ErrorKind: kind,
		Duration:  d,
	})
}

func (in *Interpreter) emitStep(ctx context.Context, workflow string, step Step, isErr bool, d time.Duration) {
	if in.hooks.OnStepEnd == nil {
		return
	}
	in.hooks.OnStepEnd(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnd},
		Workflow:  workflow,
		Step:      step.Name,
		Kind:      string(step.Kind),
		IsError:   isErr,
		Duration:  d,
	})
}
