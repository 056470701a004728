package ports

import (
	"context"

	"github.com/aretw0/agentcore/pkg/domain"
)

// ToolInvoker issues one tool invocation. Failures are encoded in the returned result.
type ToolInvoker interface {
	Invoke(ctx context.Context, inv domain.ToolInvocation) domain.ToolResult
}

// Reasoner issues one text-generation request. On failure it returns a description of
// the error in place of the answer.
type Reasoner interface {
	Generate(ctx context.Context, prompt string) string
}
