// Package client is the orchestrator side of the tool invocation protocol: it resolves a
// provider id to an endpoint and performs one request/response exchange per invocation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/aretw0/agentcore/internal/logging"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/protocol"
)

// DefaultTimeout bounds every outbound exchange.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 8 << 20

// Client invokes tools on remote providers. It is safe for concurrent use.
type Client struct {
	endpoints map[string]string
	http      *http.Client
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client over a fixed provider id -> base URL table.
// The table is copied; later changes to the caller's map have no effect.
func New(endpoints map[string]string, opts ...Option) *Client {
	c := &Client{
		endpoints: make(map[string]string, len(endpoints)),
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		logger:    logging.NewNop(),
	}
	for id, url := range endpoints {
		c.endpoints[id] = url
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the base URL for a provider id.
func (c *Client) Endpoint(id string) (string, bool) {
	url, ok := c.endpoints[id]
	return url, ok
}

// Servers returns the configured provider ids, sorted.
func (c *Client) Servers() []string {
	ids := make([]string, 0, len(c.endpoints))
	for id := range c.endpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Invoke performs one tools/call exchange. It never returns a Go error: unknown providers,
// transport failures and malformed responses all come back as an Err result.
func (c *Client) Invoke(ctx context.Context, inv domain.ToolInvocation) domain.ToolResult {
	url, ok := c.endpoints[inv.Server]
	if !ok {
		return domain.Failf(domain.KindUnknownProvider, "Unknown MCP server: %s", inv.Server)
	}

	req, err := protocol.NewCallRequest(inv.Tool, inv.Arguments)
	if err != nil {
		return domain.Fail(domain.KindInvalidRequest, err.Error())
	}

	start := time.Now()
	body, err := c.exchange(ctx, url, req)
	if err != nil {
		c.logger.Warn("Tool call transport failure",
			"server", inv.Server,
			"tool", inv.Tool,
			"err", err,
			"duration", time.Since(start),
		)
		return domain.Fail(domain.KindTransport, err.Error())
	}

	var result domain.ToolResult
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.Failf(domain.KindTransport, "malformed response from %s: %v", inv.Server, err)
	}
	c.logger.Debug("Tool call completed",
		"server", inv.Server,
		"tool", inv.Tool,
		"is_error", result.IsErr(),
		"duration", time.Since(start),
	)
	return result
}

// List performs a tools/list exchange and returns the provider's descriptors.
func (c *Client) List(ctx context.Context, server string) ([]domain.ToolDescriptor, error) {
	url, ok := c.endpoints[server]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, server)
	}
	body, err := c.exchange(ctx, url, protocol.NewListRequest())
	if err != nil {
		return nil, err
	}
	var out struct {
		protocol.ListResult
		protocol.ErrorBody
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("malformed tools/list response from %s: %w", server, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%s: %s", server, out.Error)
	}
	return out.Tools, nil
}

// exchange posts one protocol request. Caller cancellation does not reach the outbound
// call; only the client timeout ends it early.
func (c *Client) exchange(ctx context.Context, url string, req protocol.Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
