package report

import (
	"time"

	"github.com/roivaz/pr-dupcheck/internal/detector"
	"github.com/roivaz/pr-dupcheck/internal/similarity"
)

type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
	Author string `json:"author,omitempty"`
}

type Match struct {
	PullRequest
	Score          float64 `json:"score"`
	FileOverlap    float64 `json:"file_overlap"`
	TextSimilarity float64 `json:"text_similarity"`
}

type Stats struct {
	Pages      int `json:"pages,omitempty"`
	Scanned    int `json:"scanned"`
	Candidates int `json:"candidates"`
	OutOfOrder int `json:"out_of_order,omitempty"`
}

// Report is the serializable form of a detection outcome.
type Report struct {
	Repository  string      `json:"repository"`
	PullRequest PullRequest `json:"pull_request"`
	Cutoff      time.Time   `json:"cutoff"`
	Stats       Stats       `json:"stats"`
	Matches     []Match     `json:"matches"`

	// Set only for archived runs.
	RunID      string    `json:"run_id,omitempty"`
	Notified   bool      `json:"notified,omitempty"`
	RecordedAt time.Time `json:"recorded_at,omitzero"`
}

func FromOutcome(repository string, out detector.Outcome) Report {
	rep := Report{
		Repository:  repository,
		PullRequest: fromRecord(out.Current),
		Cutoff:      out.Cutoff,
		Stats: Stats{
			Pages:      out.Stats.Pages,
			Scanned:    out.Stats.Scanned,
			Candidates: out.Stats.Candidates,
			OutOfOrder: out.Stats.OutOfOrder,
		},
		Matches: make([]Match, 0, len(out.Matches)),
	}
	for _, m := range out.Matches {
		rep.Matches = append(rep.Matches, Match{
			PullRequest:    fromRecord(m.Candidate),
			Score:          m.Score,
			FileOverlap:    m.FileOverlap,
			TextSimilarity: m.TextSimilarity,
		})
	}
	return rep
}

func fromRecord(r similarity.Record) PullRequest {
	return PullRequest{Number: r.Number, Title: r.Title, URL: r.URL, Author: r.Author}
}
