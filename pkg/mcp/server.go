// Package mcp exposes generators to AI agents as MCP tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerFactory creates and runs MCP servers.
type ServerFactory struct {
	Impl *mcp.Implementation
}

// NewServerFactory creates a new server factory.
func NewServerFactory(name, version string) *ServerFactory {
	return &ServerFactory{
		Impl: &mcp.Implementation{
			Name:    name,
			Version: version,
		},
	}
}

// CreateServer creates a server with the handler's tools registered.
func (f *ServerFactory) CreateServer(h *Handler) *mcp.Server {
	server := mcp.NewServer(f.Impl, &mcp.ServerOptions{})
	h.Register(server)
	return server
}

// RunServer serves over the named transport until ctx is done.
func (f *ServerFactory) RunServer(ctx context.Context, server *mcp.Server, transport string) error {
	switch transport {
	case "stdio":
		return server.Run(ctx, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("unsupported transport: %s", transport)
	}
}
