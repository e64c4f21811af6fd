package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/roivaz/pr-dupcheck/internal/logging"
)

const (
	perPage            = 100
	defaultHTTPTimeout = 30 * time.Second
	initialRetryDelay  = 500 * time.Millisecond
	maxRetryDelay      = 10 * time.Second
)

// NewGitHubClient returns a go-github client authenticated with token when
// one is given. A non-empty apiURL points the client at GitHub Enterprise.
func NewGitHubClient(token, apiURL string, timeout time.Duration) (*github.Client, error) {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	var hc *http.Client
	if token == "" {
		hc = &http.Client{Timeout: timeout}
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
		hc.Timeout = timeout
	}
	client := github.NewClient(hc)
	if strings.TrimSpace(apiURL) == "" {
		return client, nil
	}
	enterprise, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("configure github api url: %w", err)
	}
	return enterprise, nil
}

// GitHub reads pull requests of one repository through the GitHub REST API.
type GitHub struct {
	client   *github.Client
	owner    string
	repo     string
	attempts uint
	delay    time.Duration
	log      logging.Logger
}

type GitHubOption func(*GitHub)

// WithRetries sets how many times a failed call is attempted in total.
func WithRetries(attempts int) GitHubOption {
	return func(g *GitHub) {
		if attempts < 1 {
			attempts = 1
		}
		g.attempts = uint(attempts)
	}
}

// WithRetryDelay overrides the initial backoff delay.
func WithRetryDelay(d time.Duration) GitHubOption {
	return func(g *GitHub) { g.delay = d }
}

func WithLogger(log logging.Logger) GitHubOption {
	return func(g *GitHub) { g.log = log.WithName("github") }
}

func NewGitHub(client *github.Client, owner, repo string, opts ...GitHubOption) *GitHub {
	g := &GitHub{
		client:   client,
		owner:    owner,
		repo:     repo,
		attempts: 3,
		delay:    initialRetryDelay,
		log:      logging.New(logging.DefaultLogger()).WithName("github"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Repository returns "owner/repo".
func (g *GitHub) Repository() string {
	return g.owner + "/" + g.repo
}

func (g *GitHub) GetPullRequest(ctx context.Context, number int) (PullRequest, error) {
	var pr *github.PullRequest
	err := g.withRetry(ctx, fmt.Sprintf("get pull request #%d", number), func() error {
		var err error
		pr, _, err = g.client.PullRequests.Get(ctx, g.owner, g.repo, number)
		return err
	})
	if err != nil {
		return PullRequest{}, err
	}
	return buildPullRequest(pr), nil
}

// ListPullRequests returns one page of pull requests in any state, most
// recently updated first.
func (g *GitHub) ListPullRequests(ctx context.Context, page int) (ListPage, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage, Page: page},
	}

	var (
		prs  []*github.PullRequest
		resp *github.Response
	)
	err := g.withRetry(ctx, fmt.Sprintf("list pull requests (page %d)", page), func() error {
		var err error
		prs, resp, err = g.client.PullRequests.List(ctx, g.owner, g.repo, opts)
		return err
	})
	if err != nil {
		return ListPage{}, err
	}

	out := ListPage{PullRequests: make([]PullRequest, 0, len(prs))}
	for _, pr := range prs {
		out.PullRequests = append(out.PullRequests, buildPullRequest(pr))
	}
	if resp != nil {
		out.NextPage = resp.NextPage
	}
	return out, nil
}

func (g *GitHub) ListPullRequestFiles(ctx context.Context, number, page int) (FilesPage, error) {
	opts := &github.ListOptions{PerPage: perPage, Page: page}

	var (
		files []*github.CommitFile
		resp  *github.Response
	)
	err := g.withRetry(ctx, fmt.Sprintf("list files of #%d (page %d)", number, page), func() error {
		var err error
		files, resp, err = g.client.PullRequests.ListFiles(ctx, g.owner, g.repo, number, opts)
		return err
	})
	if err != nil {
		return FilesPage{}, err
	}

	out := FilesPage{Files: make([]string, 0, len(files))}
	for _, f := range files {
		out.Files = append(out.Files, f.GetFilename())
	}
	if resp != nil {
		out.NextPage = resp.NextPage
	}
	return out, nil
}

func buildPullRequest(pr *github.PullRequest) PullRequest {
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		URL:       pr.GetHTMLURL(),
		Author:    pr.GetUser().GetLogin(),
		State:     pr.GetState(),
		Merged:    pr.GetMerged() || pr.MergedAt != nil,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

func (g *GitHub) withRetry(ctx context.Context, operation string, fn func() error) error {
	err := retry.Do(
		func() error {
			err := fn()
			if err != nil && !retryable(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(g.delay),
		retry.MaxDelay(maxRetryDelay),
		retry.OnRetry(func(n uint, err error) {
			g.log.Info("retrying github call", "operation", operation, "attempt", n+1, "max", g.attempts, "error", err.Error())
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

// retryable reports whether err is worth another attempt. Client errors
// other than rate limiting are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}
