package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/roivaz/pr-dupcheck/internal/db"
	"github.com/roivaz/pr-dupcheck/internal/detector"
	"github.com/roivaz/pr-dupcheck/internal/report"
)

// DetectorService runs detection for one repository.
type DetectorService struct {
	Detector   *detector.Detector
	Repository string
}

func NewDetectorService(d *detector.Detector, repository string) *DetectorService {
	return &DetectorService{Detector: d, Repository: repository}
}

func (s *DetectorService) FindSimilar(ctx context.Context, number int, lookback time.Duration) (report.Report, error) {
	out, err := s.Detector.FindSimilarWithin(ctx, number, lookback)
	if err != nil {
		return report.Report{}, fmt.Errorf("find similar pull requests: %w", err)
	}
	return report.FromOutcome(s.Repository, out), nil
}

type dbArchiveService struct {
	repo *db.ArchiveRepository
}

func NewDBArchiveService(repo *db.ArchiveRepository) ArchiveService {
	return &dbArchiveService{repo: repo}
}

func (s *dbArchiveService) RecentDuplicates(ctx context.Context, limit int) ([]report.Report, error) {
	runs, err := s.repo.RecentRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent runs: %w", err)
	}
	return toReports(runs), nil
}

func (s *dbArchiveService) RunsForPR(ctx context.Context, number, limit int) ([]report.Report, error) {
	runs, err := s.repo.RunsForPR(ctx, number, limit)
	if err != nil {
		return nil, fmt.Errorf("load runs for #%d: %w", number, err)
	}
	return toReports(runs), nil
}

func toReports(runs []db.DetectionRun) []report.Report {
	out := make([]report.Report, 0, len(runs))
	for _, run := range runs {
		out = append(out, db.ToReport(run))
	}
	return out
}
