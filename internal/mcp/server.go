package mcp

import (
	"context"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
	closer  func() error
}

var toolDefinitions = map[string]mcp.Tool{
	"find_similar_prs": mcp.NewTool("find_similar_prs",
		mcp.WithDescription("Compare a pull request against recently updated pull requests of the repository and return likely duplicates ranked by file overlap and title/description similarity."),
		mcp.WithNumber("pr_number",
			mcp.Required(),
			mcp.Description("The pull request number to check (e.g., 1234)"),
		),
		mcp.WithNumber("lookback_hours",
			mcp.Description("Only compare against pull requests updated within this many hours (default: 168)"),
		),
	),
	"recent_duplicates": mcp.NewTool("recent_duplicates",
		mcp.WithDescription("List archived detection runs that found likely duplicates, newest first. Requires the detection archive."),
		mcp.WithNumber("pr_number",
			mcp.Description("Optional: only runs for this pull request"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return (default: 10)"),
		),
	),
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		"pr-dupcheck",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	for name, adapter := range cfg.ToolAdapters {
		tool, ok := toolDefinitions[name]
		if !ok {
			log.Printf("mcp: no definition for tool %q, skipping", name)
			continue
		}
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return adapter.ToolAdapter(ctx, req)
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
		closer:  cfg.Closer,
	}
}

func (s *Server) Close() {
	if s.closer == nil {
		return
	}
	if err := s.closer(); err != nil {
		log.Printf("error closing resources: %v", err)
	}
}
