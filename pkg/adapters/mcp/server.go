package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/agentcore"
	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Toolset is the provider surface exposed over MCP.
type Toolset interface {
	Name() string
	Tools() []domain.ToolDescriptor
	Call(ctx context.Context, name string, args map[string]any) domain.ToolResult
}

// Server exposes a provider's tool registry as an MCP server.
type Server struct {
	toolset   Toolset
	tools     []mcp.Tool
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance for a provider.
func NewServer(toolset Toolset, logger *slog.Logger) (*Server, error) {
	s := &Server{
		toolset: toolset,
		logger:  logger,
		mcpServer: server.NewMCPServer(
			"agentcore-"+toolset.Name(),
			strings.TrimSpace(agentcore.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerResources()
	return s, nil
}

// Tools returns the MCP tool definitions built from the provider registry.
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr, "provider", s.toolset.Name())
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getArgs extracts arguments from request as map[string]any
func getArgs(request mcp.CallToolRequest) map[string]any {
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		return args
	}
	return make(map[string]any)
}

func (s *Server) registerTools() error {
	for _, d := range s.toolset.Tools() {
		schema, err := json.Marshal(d.InputSchema)
		if err != nil {
			return fmt.Errorf("encode schema for %s: %w", d.Name, err)
		}
		tool := mcp.NewToolWithRawSchema(d.Name, d.Description, schema)
		s.tools = append(s.tools, tool)
		s.mcpServer.AddTool(tool, s.handler(d.Name))
	}
	return nil
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toCallResult(s.toolset.Call(ctx, name, getArgs(request))), nil
	}
}

// toCallResult maps a tool result onto MCP content. Provider failures become tool errors,
// not protocol errors, so the client model can see them.
func toCallResult(r domain.ToolResult) *mcp.CallToolResult {
	if r.IsErr() {
		return mcp.NewToolResultError(r.Err().Message)
	}
	if text, ok := r.FirstText(); ok {
		return mcp.NewToolResultText(text)
	}
	return mcp.NewToolResultText(r.String())
}

func (s *Server) registerResources() {
	uri := fmt.Sprintf("agentcore://%s/tools", s.toolset.Name())
	s.mcpServer.AddResource(mcp.NewResource(uri, "Tool descriptors",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.toolset.Tools())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tools: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
