package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const defaultRunLimit = 10

// ArchiveRepository stores detection runs of one repository for later
// inspection. Detection itself never reads from it.
type ArchiveRepository struct {
	db         *bun.DB
	repository string
}

// NewArchiveRepository scopes every query to repository ("owner/repo").
func NewArchiveRepository(database *Database, repository string) *ArchiveRepository {
	return &ArchiveRepository{db: database.Bun(), repository: repository}
}

func (r *ArchiveRepository) Repository() string {
	return r.repository
}

// SaveRun inserts run and its matches in one transaction. Runs recorded for
// another repository are refused.
func (r *ArchiveRepository) SaveRun(ctx context.Context, run *DetectionRun) error {
	if run.Repository == "" {
		run.Repository = r.repository
	}
	if run.Repository != r.repository {
		return fmt.Errorf("run for %s does not belong to archive of %s", run.Repository, r.repository)
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return fmt.Errorf("insert detection run: %w", err)
		}
		if len(run.Matches) == 0 {
			return nil
		}
		for _, m := range run.Matches {
			m.RunID = run.ID
		}
		if _, err := tx.NewInsert().Model(&run.Matches).Exec(ctx); err != nil {
			return fmt.Errorf("insert detection matches: %w", err)
		}
		return nil
	})
}

// RecentRuns returns the latest runs that found at least one match, newest
// first.
func (r *ArchiveRepository) RecentRuns(ctx context.Context, limit int) ([]DetectionRun, error) {
	var runs []DetectionRun
	err := r.recentRunsQuery(&runs, limit).Scan(ctx)
	return runs, err
}

// RunsForPR returns the runs recorded for one pull request, newest first.
func (r *ArchiveRepository) RunsForPR(ctx context.Context, number, limit int) ([]DetectionRun, error) {
	var runs []DetectionRun
	err := r.runsForPRQuery(&runs, number, limit).Scan(ctx)
	return runs, err
}

// Prune deletes the runs recorded before olderThan, their matches with them,
// and returns how many runs were removed.
func (r *ArchiveRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, errors.New("prune cutoff is required")
	}
	res, err := r.pruneQuery(olderThan).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune detection runs: %w", err)
	}
	return res.RowsAffected()
}

func (r *ArchiveRepository) runsQuery(runs *[]DetectionRun, limit int) *bun.SelectQuery {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	return r.db.NewSelect().
		Model(runs).
		Relation("Matches", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("rank ASC")
		}).
		Where("repository = ?", r.repository).
		OrderExpr("created_at DESC").
		Limit(limit)
}

func (r *ArchiveRepository) recentRunsQuery(runs *[]DetectionRun, limit int) *bun.SelectQuery {
	return r.runsQuery(runs, limit).Where("match_count > 0")
}

func (r *ArchiveRepository) runsForPRQuery(runs *[]DetectionRun, number, limit int) *bun.SelectQuery {
	return r.runsQuery(runs, limit).Where("pr_number = ?", number)
}

func (r *ArchiveRepository) pruneQuery(olderThan time.Time) *bun.DeleteQuery {
	return r.db.NewDelete().
		Model((*DetectionRun)(nil)).
		Where("repository = ?", r.repository).
		Where("created_at < ?", olderThan)
}
