package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentcore/pkg/domain"
)

type stubInvoker struct{ result domain.ToolResult }

func (s stubInvoker) Invoke(context.Context, domain.ToolInvocation) domain.ToolResult {
	return s.result
}

func TestHooks_CountWorkflows(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnWorkflowStart(ctx, &domain.WorkflowEvent{Task: "weather"})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeWorkflows))

	hooks.OnWorkflowEnd(ctx, &domain.WorkflowEvent{Workflow: "weather_analysis", Outcome: "ok"})
	hooks.OnWorkflowStart(ctx, &domain.WorkflowEvent{Task: "hello"})
	hooks.OnWorkflowEnd(ctx, &domain.WorkflowEvent{Outcome: "unrouted"})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeWorkflows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("weather_analysis", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("none", "unrouted")))
}

func TestHooks_CountWorkflowErrorsByKind(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnWorkflowEnd(ctx, &domain.WorkflowEvent{Workflow: "weather_analysis", Outcome: "ok"})
	hooks.OnWorkflowEnd(ctx, &domain.WorkflowEvent{Outcome: "unrouted", ErrorKind: domain.KindRouting})
	hooks.OnWorkflowEnd(ctx, &domain.WorkflowEvent{Workflow: "glue_job_execution", Outcome: "error", ErrorKind: domain.KindExtraction})
	hooks.OnWorkflowEnd(ctx, &domain.WorkflowEvent{Workflow: "glue_job_execution", Outcome: "error", ErrorKind: domain.KindExtraction})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.workflowErrors.WithLabelValues("routing")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.workflowErrors.WithLabelValues("extraction")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.workflowErrors, "agentcore_workflow_errors_total"))
}

func TestInstrumentInvoker(t *testing.T) {
	m := NewMetrics()
	inv := m.InstrumentInvoker(stubInvoker{result: domain.Fail(domain.KindTransport, "timeout")})

	res := inv.Invoke(context.Background(), domain.ToolInvocation{Server: "aws", Tool: "list_s3_buckets"})
	require.True(t, res.IsErr())
	assert.Equal(t, "timeout", res.Err().Message)
	assert.Equal(t, 1, testutil.CollectAndCount(m.toolCallDuration, "agentcore_tool_call_duration_seconds"))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveReasoning(150 * time.Millisecond)
	m.Hooks().OnStepEnd(context.Background(), &domain.StepEvent{Workflow: "s3_list", Step: "list_buckets", Kind: "tool", Duration: time.Millisecond})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "agentcore_reasoning_duration_seconds_count 1")
	assert.Contains(t, body, "agentcore_active_workflows 0")
	assert.Contains(t, body, `agentcore_step_duration_seconds_count{kind="tool",step="list_buckets",workflow="s3_list"} 1`)
}
