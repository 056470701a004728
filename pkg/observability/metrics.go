package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/ports"
)

// Metrics holds the orchestrator collectors.
type Metrics struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	workflowErrors    *prometheus.CounterVec
	activeWorkflows   prometheus.Gauge
	stepDuration      *prometheus.HistogramVec
	toolCallDuration  *prometheus.HistogramVec
	reasoningDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_requests_total",
				Help: "Total number of workflow executions",
			},
			[]string{"workflow", "outcome"},
		),
		workflowErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentcore_workflow_errors_total",
				Help: "Workflows stopped by the interpreter, by error kind",
			},
			[]string{"kind"},
		),
		activeWorkflows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agentcore_active_workflows",
			Help: "Number of workflows currently executing",
		}),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_step_duration_seconds",
				Help:    "Duration of workflow steps",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"workflow", "step", "kind"},
		),
		toolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentcore_tool_call_duration_seconds",
				Help:    "Duration of tool invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"server", "tool", "outcome"},
		),
		reasoningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentcore_reasoning_duration_seconds",
			Help:    "Duration of reasoning requests",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.workflowErrors,
		m.activeWorkflows,
		m.stepDuration,
		m.toolCallDuration,
		m.reasoningDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns interpreter lifecycle hooks that record workflow metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnWorkflowStart: func(ctx context.Context, e *domain.WorkflowEvent) {
			m.activeWorkflows.Inc()
		},
		OnWorkflowEnd: func(ctx context.Context, e *domain.WorkflowEvent) {
			m.activeWorkflows.Dec()
			workflow := e.Workflow
			if workflow == "" {
				workflow = "none"
			}
			m.requests.WithLabelValues(workflow, e.Outcome).Inc()
			if e.ErrorKind != "" {
				m.workflowErrors.WithLabelValues(string(e.ErrorKind)).Inc()
			}
		},
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			m.stepDuration.WithLabelValues(e.Workflow, e.Step, e.Kind).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveReasoning records one reasoning request. It matches reasoning.WithObserver.
func (m *Metrics) ObserveReasoning(d time.Duration) {
	m.reasoningDuration.Observe(d.Seconds())
}

// InstrumentInvoker wraps a tool invoker with latency and outcome recording.
func (m *Metrics) InstrumentInvoker(next ports.ToolInvoker) ports.ToolInvoker {
	return &instrumentedInvoker{next: next, metrics: m}
}

type instrumentedInvoker struct {
	next    ports.ToolInvoker
	metrics *Metrics
}

func (i *instrumentedInvoker) Invoke(ctx context.Context, inv domain.ToolInvocation) domain.ToolResult {
	start := time.Now()
	res := i.next.Invoke(ctx, inv)
	outcome := "ok"
	if res.IsErr() {
		outcome = string(res.Err().Kind)
	}
	i.metrics.toolCallDuration.WithLabelValues(inv.Server, inv.Tool, outcome).Observe(time.Since(start).Seconds())
	return res
}
