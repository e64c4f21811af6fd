package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/pr-dupcheck/internal/report"
)

type fakeSimilarity struct {
	number   int
	lookback time.Duration
	err      error
}

func (f *fakeSimilarity) FindSimilar(_ context.Context, number int, lookback time.Duration) (report.Report, error) {
	f.number, f.lookback = number, lookback
	if f.err != nil {
		return report.Report{}, f.err
	}
	return report.Report{
		Repository:  "acme/widgets",
		PullRequest: report.PullRequest{Number: number},
		Matches:     []report.Match{{PullRequest: report.PullRequest{Number: 3}, Score: 0.9}},
	}, nil
}

type fakeArchive struct {
	forPR int
}

func (f *fakeArchive) RecentDuplicates(context.Context, int) ([]report.Report, error) {
	return []report.Report{{Repository: "acme/widgets", RunID: "a"}, {Repository: "acme/widgets", RunID: "b"}}, nil
}

func (f *fakeArchive) RunsForPR(_ context.Context, number, _ int) ([]report.Report, error) {
	f.forPR = number
	return []report.Report{{RunID: "c"}}, nil
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestFindSimilarHandler(t *testing.T) {
	svc := &fakeSimilarity{}
	h := &FindSimilarHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), request(map[string]any{"pr_number": float64(42), "lookback_hours": float64(48)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 42, svc.number)
	assert.Equal(t, 48*time.Hour, svc.lookback)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &rep))
	assert.Equal(t, 42, rep.PullRequest.Number)
	require.Len(t, rep.Matches, 1)
}

func TestFindSimilarHandlerValidatesArguments(t *testing.T) {
	h := &FindSimilarHandler{Service: &fakeSimilarity{}}

	res, err := h.ToolAdapter(context.Background(), request(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.ToolAdapter(context.Background(), request(map[string]any{"pr_number": 1.5}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.ToolAdapter(context.Background(), request(map[string]any{"pr_number": float64(1), "lookback_hours": float64(-1)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestFindSimilarHandlerPropagatesServiceErrors(t *testing.T) {
	h := &FindSimilarHandler{Service: &fakeSimilarity{err: errors.New("github down")}}
	_, err := h.ToolAdapter(context.Background(), request(map[string]any{"pr_number": float64(1)}))
	assert.Error(t, err)
}

func TestRecentDuplicatesHandler(t *testing.T) {
	archive := &fakeArchive{}
	h := &RecentDuplicatesHandler{Service: archive}

	res, err := h.ToolAdapter(context.Background(), request(map[string]any{}))
	require.NoError(t, err)
	var body struct {
		Runs  []report.Report `json:"runs"`
		Total int             `json:"total_found"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &body))
	assert.Equal(t, 2, body.Total)

	res, err = h.ToolAdapter(context.Background(), request(map[string]any{"pr_number": float64(7)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 7, archive.forPR)
}

func TestRecentDuplicatesWithoutArchive(t *testing.T) {
	h := &RecentDuplicatesHandler{}
	res, err := h.ToolAdapter(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
