// Package reasoning is the client side of the text-generation backend used for analysis steps.
//
// Generate never fails: a backend error is returned as text prefixed with the backend's name
// (for example "Bedrock error: ..."), and callers forward it like any other answer.
package reasoning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/agentcore/internal/logging"
)

const (
	// MaxTokensCeiling is the hard upper bound on generated tokens per request.
	MaxTokensCeiling = 200
	DefaultTimeout   = 30 * time.Second
)

// Backend is one inference service.
type Backend interface {
	// Name labels the backend in error text.
	Name() string
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Client issues single, bounded generation requests. It is safe for concurrent use.
type Client struct {
	backend   Backend
	maxTokens int
	timeout   time.Duration
	logger    *slog.Logger
	observe   func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithMaxTokens sets the token budget. Values above MaxTokensCeiling are clamped.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = min(n, MaxTokensCeiling)
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver registers a callback that receives the duration of every request.
func WithObserver(fn func(time.Duration)) Option {
	return func(c *Client) {
		c.observe = fn
	}
}

// New creates a client over backend.
func New(backend Backend, opts ...Option) *Client {
	c := &Client{
		backend:   backend,
		maxTokens: MaxTokensCeiling,
		timeout:   DefaultTimeout,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxTokens returns the effective token budget.
func (c *Client) MaxTokens() int {
	return c.maxTokens
}

// Generate runs one completion. Caller cancellation does not reach the backend; the client
// timeout does.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.backend.Complete(ctx, prompt, c.maxTokens)
	elapsed := time.Since(start)
	if c.observe != nil {
		c.observe(elapsed)
	}
	if err != nil {
		c.logger.Warn("Reasoning request failed", "backend", c.backend.Name(), "err", err, "duration", elapsed)
		return fmt.Sprintf("%s error: %v", c.backend.Name(), err)
	}
	c.logger.Debug("Reasoning request completed", "backend", c.backend.Name(), "duration", elapsed)
	return text
}
