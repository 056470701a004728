// Package provider implements the dispatch side of the tool invocation protocol:
// a named, immutable tool registry guarded by a startup-time session status.
package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/agentcore/internal/logging"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/protocol"
	"github.com/aretw0/agentcore/pkg/registry"
)

// Status is the outcome of a provider's session initialization.
// It is decided once at startup and never re-evaluated.
type Status struct {
	ready  bool
	reason string
}

// Ready marks a provider whose backend session initialized.
func Ready() Status {
	return Status{ready: true}
}

// Unavailable marks a degraded provider. Every tools/call returns reason as its error.
func Unavailable(reason string) Status {
	return Status{reason: reason}
}

// IsReady reports whether calls may reach the backend.
func (s Status) IsReady() bool {
	return s.ready
}

// Reason is the error reported by every call while unavailable.
func (s Status) Reason() string {
	return s.reason
}

func (s Status) String() string {
	if s.ready {
		return "ready"
	}
	return "unavailable"
}

// Provider serves tools/list and tools/call for one tool family.
type Provider struct {
	name     string
	registry *registry.Registry
	status   Status
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a provider over a registry with a fixed session status.
func New(name string, reg *registry.Registry, status Status, opts ...Option) *Provider {
	p := &Provider{
		name:     name,
		registry: reg,
		status:   status,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider id.
func (p *Provider) Name() string {
	return p.name
}

// Status returns the startup session status.
func (p *Provider) Status() Status {
	return p.status
}

// Tools returns the full descriptor registry. It does not depend on the session status.
func (p *Provider) Tools() []domain.ToolDescriptor {
	return p.registry.Descriptors()
}

// Call dispatches a tool by name. An unavailable provider answers without touching the backend.
func (p *Provider) Call(ctx context.Context, name string, args map[string]any) domain.ToolResult {
	if !p.status.IsReady() {
		p.logger.Warn("Tool call rejected, provider unavailable", "provider", p.name, "tool", name)
		return domain.Fail(domain.KindUnavailable, p.status.Reason())
	}

	start := time.Now()
	result := p.registry.Execute(ctx, name, args)
	if result.IsErr() {
		p.logger.Warn("Tool call failed",
			"provider", p.name,
			"tool", name,
			"kind", result.Err().Kind,
			"error", result.Err().Message,
			"duration", time.Since(start),
		)
	} else {
		p.logger.Debug("Tool call completed", "provider", p.name, "tool", name, "duration", time.Since(start))
	}
	return result
}

// Handle answers one protocol request. The returned value is the JSON response body.
func (p *Provider) Handle(ctx context.Context, req protocol.Request) any {
	switch req.Method {
	case protocol.MethodToolsList:
		return protocol.ListResult{Tools: p.Tools()}
	case protocol.MethodToolsCall:
		var params protocol.CallParams
		if err := req.DecodeParams(&params); err != nil {
			return domain.Fail(domain.KindInvalidRequest, err.Error())
		}
		return p.Call(ctx, params.Name, params.Arguments)
	default:
		return domain.Fail(domain.KindUnknownMethod, protocol.UnknownMethodMessage)
	}
}
