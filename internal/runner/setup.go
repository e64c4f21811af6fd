package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roivaz/pr-dupcheck/internal/config"
	"github.com/roivaz/pr-dupcheck/internal/db"
	dbmigrate "github.com/roivaz/pr-dupcheck/internal/db/migrate"
	"github.com/roivaz/pr-dupcheck/internal/detector"
	"github.com/roivaz/pr-dupcheck/internal/logging"
	"github.com/roivaz/pr-dupcheck/internal/notify"
	"github.com/roivaz/pr-dupcheck/internal/source"
)

// Components holds everything built from process configuration.
type Components struct {
	Source     *source.GitHub
	Detector   *detector.Detector
	Notifier   notify.Notifier
	Database   *db.Database
	Archive    *db.ArchiveRepository
	Repository string
	Log        logging.Logger
}

// Setup wires the GitHub source, detector, notifier and, when postgres_url
// is set, the detection archive. An unreachable archive or one with pending
// migrations fails here, before any detection work.
func Setup(ctx context.Context, log logging.Logger) (*Components, error) {
	owner, repo, err := source.ParseRepository(config.GitHubRepository())
	if err != nil {
		return nil, fmt.Errorf("github_repository: %w", err)
	}

	timeout, err := time.ParseDuration(config.HTTPTimeout())
	if err != nil {
		return nil, fmt.Errorf("invalid http_timeout: %w", err)
	}
	client, err := source.NewGitHubClient(config.GitHubToken(), config.GitHubAPIURL(), timeout)
	if err != nil {
		return nil, err
	}
	gh := source.NewGitHub(client, owner, repo,
		source.WithRetries(config.HTTPRetries()),
		source.WithLogger(log),
	)

	dcfg, err := detector.LoadConfig()
	if err != nil {
		return nil, err
	}
	dcfg.Logger = log.Logr()

	ncfg, err := notify.LoadConfig()
	if err != nil {
		return nil, err
	}
	ncfg.Logger = log.Logr()

	c := &Components{
		Source:     gh,
		Detector:   detector.New(gh, dcfg),
		Notifier:   notify.New(ncfg),
		Repository: gh.Repository(),
		Log:        log,
	}

	if dsn := config.PostgresURL(); dsn != "" {
		database, err := db.Open(ctx, db.Config{DSN: dsn, Debug: config.DBDebug()})
		if err != nil {
			return nil, fmt.Errorf("open detection archive: %w", err)
		}
		if err := dbmigrate.EnsureCurrent(ctx, database.Bun(), config.MigrationsDir(), config.AutoMigrate()); err != nil {
			_ = database.Close()
			return nil, err
		}
		c.Database = database
		c.Archive = db.NewArchiveRepository(database, c.Repository)
	} else {
		log.Debug("postgres_url not set, detection archive disabled")
	}
	return c, nil
}

func (c *Components) Runner() *Runner {
	var archive Archive
	if c.Archive != nil {
		archive = c.Archive
	}
	return New(c.Detector, c.Notifier, archive, c.Repository, c.Log)
}

func (c *Components) Close() error {
	if c.Database == nil {
		return nil
	}
	return c.Database.Close()
}

// ResolvePRNumber prefers explicit, then pr_number, then the pull request
// of the GitHub Actions event payload.
func ResolvePRNumber(explicit int) (int, error) {
	if explicit > 0 {
		return explicit, nil
	}
	if n := config.PRNumber(); n > 0 {
		return n, nil
	}
	if path := config.GitHubEventPath(); path != "" {
		n, err := source.PRNumberFromEvent(path)
		if err != nil {
			return 0, fmt.Errorf("resolve pull request from event: %w", err)
		}
		return n, nil
	}
	return 0, errors.New("pull request number required (--pr, PR_NUMBER or GITHUB_EVENT_PATH)")
}
