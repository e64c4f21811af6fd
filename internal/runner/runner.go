package runner

import (
	"context"

	"github.com/roivaz/pr-dupcheck/internal/db"
	"github.com/roivaz/pr-dupcheck/internal/detector"
	"github.com/roivaz/pr-dupcheck/internal/logging"
	"github.com/roivaz/pr-dupcheck/internal/notify"
	"github.com/roivaz/pr-dupcheck/internal/report"
)

// Finder is satisfied by *detector.Detector.
type Finder interface {
	FindSimilar(ctx context.Context, number int) (detector.Outcome, error)
}

// Archive persists finished runs.
type Archive interface {
	SaveRun(ctx context.Context, run *db.DetectionRun) error
}

// Runner executes one detection: find, notify, archive.
type Runner struct {
	finder     Finder
	notifier   notify.Notifier
	archive    Archive
	repository string
	log        logging.Logger
}

func New(finder Finder, notifier notify.Notifier, archive Archive, repository string, log logging.Logger) *Runner {
	return &Runner{
		finder:     finder,
		notifier:   notifier,
		archive:    archive,
		repository: repository,
		log:        log.WithName("runner"),
	}
}

type Result struct {
	Report   report.Report
	Message  string
	Notified bool
}

// Run checks pull request number for duplicates. Detection errors are
// returned; notification and archive failures are only logged. When dryRun
// is set the message is rendered but not delivered.
func (r *Runner) Run(ctx context.Context, number int, dryRun bool) (Result, error) {
	log := r.log.WithValues("repository", r.repository, "pr", number)

	out, err := r.finder.FindSimilar(ctx, number)
	if err != nil {
		return Result{}, err
	}
	res := Result{Report: report.FromOutcome(r.repository, out)}

	if !out.Found() {
		log.Info("no similar PRs found", "candidates", out.Stats.Candidates)
	} else {
		res.Message = notify.FormatMessage(out.Current, out.Matches)
		log.Info("similar PRs found", "matches", len(out.Matches))
		if dryRun {
			log.Info("dry run, notification not sent", "message", res.Message)
		} else {
			res.Notified = notify.Deliver(ctx, r.notifier, res.Message, log)
		}
	}

	if r.archive != nil {
		run := db.NewDetectionRun(res.Report, res.Notified)
		if err := r.archive.SaveRun(ctx, run); err != nil {
			log.Error(err, "archive detection run failed")
		} else {
			res.Report.RunID = run.ID.String()
		}
	}
	return res, nil
}
