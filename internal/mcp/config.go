package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/pr-dupcheck/internal/mcp/tools"
	"github.com/roivaz/pr-dupcheck/internal/runner"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
	Closer       func() error
}

// NewConfig exposes the detector, and the archive when one is configured, as
// MCP tools.
func NewConfig(c *runner.Components) Config {
	recent := &tools.RecentDuplicatesHandler{}
	if c.Archive != nil {
		recent.Service = tools.NewDBArchiveService(c.Archive)
	}

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			"find_similar_prs":  &tools.FindSimilarHandler{Service: tools.NewDetectorService(c.Detector, c.Repository)},
			"recent_duplicates": recent,
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath("/mcp/jsonrpc"),
			server.WithStateLess(true),
		},
		Closer: c.Close,
	}
}
