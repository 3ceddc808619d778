// Package server exposes the query engine over MCP so editor agents can ask
// dependency questions without shelling out to the CLI.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"depmap/internal/graph"
	"depmap/internal/workspace"
)

const systemPrompt = `# depmap

depmap answers dependency questions about an Nx-style TypeScript workspace.
The graph is built once at startup from import statements: nodes are
exported entities (classes, components, services, …), an edge A -> B means
A's file imports something that resolves to B.

Tools:
- query_entity: look up entities by exact name.
- find_impact: list the consumers affected when an entity changes.
- list_unused: entities nothing depends on.
- graph_stats: node and edge counts.`

// Server wires the analysis result into an MCP server over stdio.
type Server struct {
	mcpServer *mcp.Server
	graph     *graph.Graph
	ws        *workspace.Workspace
}

// New creates the server for an already-built graph. The graph is read-only
// from here on, so handlers need no locking.
func New(g *graph.Graph, ws *workspace.Workspace) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: "depmap", Version: "0.2.0"}, nil),
		graph:     g,
		ws:        ws,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
