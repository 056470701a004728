// Package mcp exposes a tool provider over the Model Context Protocol (stdio or SSE), as an
// alternative to the plain HTTP transport in pkg/adapters/http.
package mcp
