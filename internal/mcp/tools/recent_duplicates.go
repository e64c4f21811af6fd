package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/pr-dupcheck/internal/report"
)

type ArchiveService interface {
	RecentDuplicates(ctx context.Context, limit int) ([]report.Report, error)
	RunsForPR(ctx context.Context, number, limit int) ([]report.Report, error)
}

type RecentDuplicatesHandler struct {
	Service ArchiveService
}

func (h *RecentDuplicatesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.Service == nil {
		return mcp.NewToolResultError("detection archive is not configured (set POSTGRES_URL)"), nil
	}
	args := req.GetArguments()
	limit := 10
	if raw, ok := args["limit"].(float64); ok && int(raw) > 0 {
		limit = int(raw)
	}

	var (
		reports []report.Report
		err     error
	)
	if raw, present := args["pr_number"]; present {
		number, perr := parseIntArgument("pr_number", raw)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		reports, err = h.Service.RunsForPR(ctx, number, limit)
	} else {
		reports, err = h.Service.RecentDuplicates(ctx, limit)
	}
	if err != nil {
		return nil, err
	}

	response := struct {
		Runs  []report.Report `json:"runs"`
		Total int             `json:"total_found"`
	}{Runs: reports, Total: len(reports)}
	return mcp.NewToolResultText(string(mustMarshal(response))), nil
}
