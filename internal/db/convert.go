package db

import (
	"github.com/google/uuid"

	"github.com/roivaz/pr-dupcheck/internal/report"
)

// NewDetectionRun maps a report onto archive rows with a fresh run id.
func NewDetectionRun(rep report.Report, notified bool) *DetectionRun {
	run := &DetectionRun{
		ID:         uuid.New(),
		Repository: rep.Repository,
		PRNumber:   rep.PullRequest.Number,
		PRTitle:    rep.PullRequest.Title,
		PRURL:      rep.PullRequest.URL,
		Author:     rep.PullRequest.Author,
		Cutoff:     rep.Cutoff,
		Scanned:    rep.Stats.Scanned,
		Candidates: rep.Stats.Candidates,
		MatchCount: len(rep.Matches),
		Notified:   notified,
	}
	for i, m := range rep.Matches {
		run.Matches = append(run.Matches, &DetectionMatch{
			RunID:           run.ID,
			Rank:            i + 1,
			CandidateNumber: m.Number,
			CandidateTitle:  m.Title,
			CandidateURL:    m.URL,
			CandidateAuthor: m.Author,
			Score:           m.Score,
			FileOverlap:     m.FileOverlap,
			TextSimilarity:  m.TextSimilarity,
		})
	}
	return run
}

// ToReport rebuilds the report stored for run.
func ToReport(run DetectionRun) report.Report {
	rep := report.Report{
		Repository: run.Repository,
		PullRequest: report.PullRequest{
			Number: run.PRNumber,
			Title:  run.PRTitle,
			URL:    run.PRURL,
			Author: run.Author,
		},
		Cutoff:     run.Cutoff,
		Stats:      report.Stats{Scanned: run.Scanned, Candidates: run.Candidates},
		Matches:    make([]report.Match, 0, len(run.Matches)),
		RunID:      run.ID.String(),
		Notified:   run.Notified,
		RecordedAt: run.CreatedAt,
	}
	for _, m := range run.Matches {
		rep.Matches = append(rep.Matches, report.Match{
			PullRequest: report.PullRequest{
				Number: m.CandidateNumber,
				Title:  m.CandidateTitle,
				URL:    m.CandidateURL,
				Author: m.CandidateAuthor,
			},
			Score:          m.Score,
			FileOverlap:    m.FileOverlap,
			TextSimilarity: m.TextSimilarity,
		})
	}
	return rep
}
