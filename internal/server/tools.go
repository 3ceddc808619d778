package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"depmap/internal/graph"
)

// Arguments structs

type QueryEntityArgs struct {
	Name string `json:"name" jsonschema:"required,description:The declared name of the entity to look up"`
}

type FindImpactArgs struct {
	Name       string `json:"name" jsonschema:"required,description:The name of the entity to analyze for impact"`
	Transitive bool   `json:"transitive" jsonschema:"description:If true, follows consumers transitively instead of one hop"`
}

type ListUnusedArgs struct{}

type GraphStatsArgs struct{}

type entityInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
}

func toInfo(entities []*graph.Entity) []entityInfo {
	var infos []entityInfo
	for _, e := range entities {
		infos = append(infos, entityInfo{Name: e.Name, Kind: string(e.Kind), File: e.File})
	}
	return infos
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_entity",
		Description: "Looks up entities by their declared name",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args QueryEntityArgs) (*mcp.CallToolResult, any, error) {
		entities := s.graph.ByName(args.Name)
		if len(entities) == 0 {
			return textResult("Entity not found."), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(toInfo(entities), "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_impact",
		Description: "Finds the consumers affected when an entity changes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindImpactArgs) (*mcp.CallToolResult, any, error) {
		entities := s.graph.ByName(args.Name)
		if len(entities) == 0 {
			return errorResult(fmt.Sprintf("No entity named %q", args.Name)), nil, nil
		}

		changed := make(map[string]struct{})
		for _, e := range entities {
			changed[e.File] = struct{}{}
		}
		affected := s.graph.Affected(changed, args.Transitive)

		if len(affected.Consumers) == 0 {
			return textResult("No impacted entities found."), nil, nil
		}
		jsonBytes, _ := json.MarshalIndent(toInfo(affected.Consumers), "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_unused",
		Description: "Lists entities no other entity depends on",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListUnusedArgs) (*mcp.CallToolResult, any, error) {
		unused := s.graph.Unused()
		if len(unused) == 0 {
			return textResult("No unused entities found."), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(toInfo(unused), "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Returns entity and edge counts for the workspace graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GraphStatsArgs) (*mcp.CallToolResult, any, error) {
		result := map[string]any{
			"root":     s.ws.Root,
			"files":    len(s.ws.Files),
			"entities": s.graph.Len(),
			"edges":    s.graph.EdgeCount(),
		}

		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})
}
