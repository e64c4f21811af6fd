package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/pr-dupcheck/internal/report"
)

type SimilarityService interface {
	FindSimilar(ctx context.Context, number int, lookback time.Duration) (report.Report, error)
}

type FindSimilarHandler struct {
	Service SimilarityService
}

func (h *FindSimilarHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	number, err := parseIntArgument("pr_number", args["pr_number"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lookback time.Duration
	if raw, ok := args["lookback_hours"].(float64); ok {
		if raw <= 0 {
			return mcp.NewToolResultError("lookback_hours must be positive"), nil
		}
		lookback = time.Duration(raw * float64(time.Hour))
	}

	rep, err := h.Service.FindSimilar(ctx, number, lookback)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(mustMarshal(rep))), nil
}
