package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/agentcore/pkg/domain"
)

// Handler is the signature of a tool implementation.
// It receives a context and a map of arguments and returns a result; failures are
// encoded in the result, never returned as Go errors.
type Handler func(ctx context.Context, args map[string]any) domain.ToolResult

// Tool pairs a descriptor with its handler.
type Tool struct {
	Descriptor domain.ToolDescriptor
	Handler    Handler
}

// Registry maps tool names to tools. It is built once and never mutated, so it is safe
// for concurrent use without locking.
type Registry struct {
	order []string
	tools map[string]Tool
}

// New builds a registry from tools, keeping their order for discovery.
// Duplicate names, empty names and missing handlers are rejected.
func New(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		name := t.Descriptor.Name
		if name == "" {
			return nil, fmt.Errorf("tool without a name")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("tool %q registered twice", name)
		}
		if t.Descriptor.InputSchema.Type == "" {
			t.Descriptor.InputSchema.Type = "object"
		}
		if t.Descriptor.InputSchema.Properties == nil {
			t.Descriptor.InputSchema.Properties = map[string]domain.Property{}
		}
		r.order = append(r.order, name)
		r.tools[name] = t
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for static tool tables.
func MustNew(tools ...Tool) *Registry {
	r, err := New(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor)
	}
	return out
}

// Execute looks up a tool by name and runs it.
// An unknown name yields an invalid_request result.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) domain.ToolResult {
	t, ok := r.tools[name]
	if !ok {
		return domain.Failf(domain.KindInvalidRequest, "Unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Handler(ctx, args)
}
