package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", value)
	}
}

// Write renders rep to w. colored only affects the text format.
func Write(w io.Writer, rep Report, format Format, colored bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		out, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatText, "":
		return writeText(w, rep, colored)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, rep Report, colored bool) error {
	bold := paint(colored, color.Bold)
	warn := paint(colored, color.FgYellow, color.Bold)
	ok := paint(colored, color.FgGreen)
	faint := paint(colored, color.Faint)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s #%d %s\n", bold("Pull request"), rep.Repository, rep.PullRequest.Number, rep.PullRequest.Title)
	fmt.Fprintf(&b, "%s\n", faint(fmt.Sprintf("scanned %d pull requests updated since %s, %d candidates",
		rep.Stats.Scanned, rep.Cutoff.UTC().Format(time.RFC3339), rep.Stats.Candidates)))

	if len(rep.Matches) == 0 {
		fmt.Fprintf(&b, "%s\n", ok("No similar pull requests found."))
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%s\n", warn(fmt.Sprintf("%d possible duplicate(s):", len(rep.Matches))))
	for i, m := range rep.Matches {
		author := m.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(&b, "  %d. #%d %s (by %s)\n", i+1, m.Number, m.Title, author)
		fmt.Fprintf(&b, "     score %.2f  files %.2f  text %.2f\n", m.Score, m.FileOverlap, m.TextSimilarity)
		if m.URL != "" {
			fmt.Fprintf(&b, "     %s\n", faint(m.URL))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func paint(enabled bool, attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}
