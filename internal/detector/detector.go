package detector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roivaz/pr-dupcheck/internal/logging"
	"github.com/roivaz/pr-dupcheck/internal/similarity"
	"github.com/roivaz/pr-dupcheck/internal/source"
)

// ErrListingOutOfOrder is returned under OrderingStrict when the listing is
// not sorted by descending update time.
var ErrListingOutOfOrder = errors.New("pull request listing is not sorted by update time")

// Source is the read-only view of the hosting service the detector needs.
type Source interface {
	GetPullRequest(ctx context.Context, number int) (source.PullRequest, error)
	ListPullRequests(ctx context.Context, page int) (source.ListPage, error)
	ListPullRequestFiles(ctx context.Context, number, page int) (source.FilesPage, error)
}

// Stats describes what a run scanned.
type Stats struct {
	Pages      int `json:"pages"`
	Scanned    int `json:"scanned"`
	Candidates int `json:"candidates"`
	OutOfOrder int `json:"out_of_order"`
}

// Outcome is the result of comparing one pull request against recent ones.
type Outcome struct {
	Current similarity.Record
	Matches []similarity.Result
	Cutoff  time.Time
	Stats   Stats
}

// Found reports whether any candidate passed the thresholds.
func (o Outcome) Found() bool {
	return len(o.Matches) > 0
}

type Detector struct {
	src Source
	cfg Config
	log logging.Logger
	now func() time.Time
}

type Option func(*Detector)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

func New(src Source, cfg Config, opts ...Option) *Detector {
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 1
	}
	if cfg.Ordering == "" {
		cfg.Ordering = OrderingBestEffort
	}
	d := &Detector{
		src: src,
		cfg: cfg,
		log: logging.New(cfg.Logger).WithName("detector"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindSimilar compares pull request number against every pull request updated
// within the lookback window and returns the ranked matches. Any failure to
// read from the source aborts the run.
func (d *Detector) FindSimilar(ctx context.Context, number int) (Outcome, error) {
	return d.FindSimilarWithin(ctx, number, d.cfg.Lookback)
}

// FindSimilarWithin is FindSimilar with an explicit lookback window.
func (d *Detector) FindSimilarWithin(ctx context.Context, number int, lookback time.Duration) (Outcome, error) {
	if number <= 0 {
		return Outcome{}, fmt.Errorf("invalid pull request number %d", number)
	}
	if lookback <= 0 {
		lookback = d.cfg.Lookback
	}
	log := d.log.WithValues("pr", number)

	pr, err := d.src.GetPullRequest(ctx, number)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch pull request #%d: %w", number, err)
	}
	files, err := d.fetchFiles(ctx, number)
	if err != nil {
		return Outcome{}, err
	}
	current := newRecord(pr, files)

	cutoff := d.now().Add(-lookback)
	recent, stats, err := d.recentPullRequests(ctx, number, cutoff)
	if err != nil {
		return Outcome{}, err
	}
	log.Info("collected recent pull requests", "cutoff", cutoff.Format(time.RFC3339),
		"scanned", stats.Scanned, "candidates", len(recent), "pages", stats.Pages)

	records, err := d.buildRecords(ctx, recent)
	if err != nil {
		return Outcome{}, err
	}

	results := make([]similarity.Result, 0, len(records))
	for _, rec := range records {
		r := d.cfg.Weights.Score(current, rec)
		log.Debug("scored candidate", "candidate", rec.Number, "score", r.Score,
			"file_overlap", r.FileOverlap, "text_similarity", r.TextSimilarity)
		results = append(results, r)
	}

	stats.Candidates = len(results)
	return Outcome{
		Current: current,
		Matches: d.cfg.Thresholds.SelectTop(results),
		Cutoff:  cutoff,
		Stats:   stats,
	}, nil
}

// recentPullRequests walks the listing, newest first, and returns every pull
// request other than exclude updated at or after cutoff, in listing order.
// Paging stops after the first page that reaches past the cutoff; entries
// of a fetched page are always all inspected.
func (d *Detector) recentPullRequests(ctx context.Context, exclude int, cutoff time.Time) ([]source.PullRequest, Stats, error) {
	var (
		recent []source.PullRequest
		stats  Stats
		prev   time.Time
	)
	seen := map[int]struct{}{}
	page := 1
	for {
		lp, err := d.src.ListPullRequests(ctx, page)
		if err != nil {
			return nil, stats, fmt.Errorf("list pull requests (page %d): %w", page, err)
		}
		stats.Pages++

		reachedCutoff := false
		for _, pr := range lp.PullRequests {
			stats.Scanned++
			if !prev.IsZero() && pr.UpdatedAt.After(prev) {
				stats.OutOfOrder++
				if d.cfg.Ordering == OrderingStrict {
					return nil, stats, fmt.Errorf("%w: #%d updated %s after an entry updated %s",
						ErrListingOutOfOrder, pr.Number, pr.UpdatedAt.Format(time.RFC3339), prev.Format(time.RFC3339))
				}
				d.log.Info("listing out of order, continuing", "pr", pr.Number, "page", page,
					"updated_at", pr.UpdatedAt.Format(time.RFC3339), "previous", prev.Format(time.RFC3339))
			}
			prev = pr.UpdatedAt

			if pr.UpdatedAt.Before(cutoff) {
				reachedCutoff = true
				continue
			}
			if pr.Number == exclude {
				continue
			}
			if _, dup := seen[pr.Number]; dup {
				continue
			}
			seen[pr.Number] = struct{}{}
			recent = append(recent, pr)
		}

		if reachedCutoff || lp.NextPage == 0 {
			break
		}
		if lp.NextPage <= page {
			return nil, stats, fmt.Errorf("list pull requests: next page %d does not advance past %d", lp.NextPage, page)
		}
		page = lp.NextPage
	}
	return recent, stats, nil
}

// buildRecords fetches the file lists of prs concurrently and returns their
// records in the same order as prs.
func (d *Detector) buildRecords(ctx context.Context, prs []source.PullRequest) ([]similarity.Record, error) {
	records := make([]similarity.Record, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.FetchConcurrency)
	for i, pr := range prs {
		g.Go(func() error {
			files, err := d.fetchFiles(gctx, pr.Number)
			if err != nil {
				return err
			}
			records[i] = newRecord(pr, files)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// fetchFiles concatenates every page of a pull request's changed files.
func (d *Detector) fetchFiles(ctx context.Context, number int) (similarity.FileSet, error) {
	files := similarity.FileSet{}
	page := 1
	for {
		fp, err := d.src.ListPullRequestFiles(ctx, number, page)
		if err != nil {
			return nil, fmt.Errorf("fetch files of #%d (page %d): %w", number, page, err)
		}
		for _, f := range fp.Files {
			files[f] = struct{}{}
		}
		if fp.NextPage == 0 {
			return files, nil
		}
		if fp.NextPage <= page {
			return nil, fmt.Errorf("fetch files of #%d: next page %d does not advance past %d", number, fp.NextPage, page)
		}
		page = fp.NextPage
	}
}

func newRecord(pr source.PullRequest, files similarity.FileSet) similarity.Record {
	return similarity.Record{
		Number: pr.Number,
		Title:  pr.Title,
		Body:   pr.Body,
		Files:  files,
		URL:    pr.URL,
		Author: pr.Author,
	}
}
