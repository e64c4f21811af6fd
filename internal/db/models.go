package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DetectionRun records one comparison of a pull request against recent ones.
type DetectionRun struct {
	bun.BaseModel `bun:"table:detection_runs"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid"`
	Repository string            `bun:"repository"`
	PRNumber   int               `bun:"pr_number"`
	PRTitle    string            `bun:"pr_title"`
	PRURL      string            `bun:"pr_url"`
	Author     string            `bun:"author"`
	Cutoff     time.Time         `bun:"cutoff"`
	Scanned    int               `bun:"scanned"`
	Candidates int               `bun:"candidates"`
	MatchCount int               `bun:"match_count"`
	Notified   bool              `bun:"notified"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	Matches    []*DetectionMatch `bun:"rel:has-many,join:id=run_id"`
}

// DetectionMatch is a ranked candidate that passed the thresholds.
type DetectionMatch struct {
	bun.BaseModel `bun:"table:detection_matches"`

	ID              int64     `bun:"id,pk,autoincrement"`
	RunID           uuid.UUID `bun:"run_id,type:uuid"`
	Rank            int       `bun:"rank"`
	CandidateNumber int       `bun:"candidate_number"`
	CandidateTitle  string    `bun:"candidate_title"`
	CandidateURL    string    `bun:"candidate_url"`
	CandidateAuthor string    `bun:"candidate_author"`
	Score           float64   `bun:"score"`
	FileOverlap     float64   `bun:"file_overlap"`
	TextSimilarity  float64   `bun:"text_similarity"`
}
