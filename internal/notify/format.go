package notify

import (
	"fmt"
	"strings"

	"github.com/roivaz/pr-dupcheck/internal/similarity"
)

const (
	alertHeader   = ":rotating_light: *Possible duplicate pull request detected*"
	matchesHeader = "*Similar recent pull requests:*"
)

// FormatMessage renders the alert posted for current and its ranked matches.
func FormatMessage(current similarity.Record, matches []similarity.Result) string {
	var b strings.Builder
	b.WriteString(alertHeader)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Pull request: %s\n", describe(current))
	b.WriteString(matchesHeader)
	for _, m := range matches {
		fmt.Fprintf(&b, "\n• %s (score: %.2f, file overlap: %.2f, text similarity: %.2f)",
			describe(m.Candidate), m.Score, m.FileOverlap, m.TextSimilarity)
	}
	return b.String()
}

func describe(r similarity.Record) string {
	author := strings.TrimSpace(r.Author)
	if author == "" {
		author = "unknown"
	}
	return fmt.Sprintf("%s %s by %s", link(r), strings.TrimSpace(r.Title), author)
}

func link(r similarity.Record) string {
	if r.URL == "" {
		return fmt.Sprintf("#%d", r.Number)
	}
	return fmt.Sprintf("<%s|#%d>", r.URL, r.Number)
}
