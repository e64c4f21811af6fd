package similarity

import "sort"

const (
	DefaultMinScore       = 0.5
	DefaultMinFileOverlap = 0.4
	DefaultTopN           = 3
)

// Thresholds gates and truncates scored candidates.
type Thresholds struct {
	MinScore       float64
	MinFileOverlap float64
	TopN           int
}

// DefaultThresholds returns score >= 0.5, file overlap >= 0.4, top 3.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinScore:       DefaultMinScore,
		MinFileOverlap: DefaultMinFileOverlap,
		TopN:           DefaultTopN,
	}
}

// Passes reports whether r clears both gates.
func (t Thresholds) Passes(r Result) bool {
	return r.Score >= t.MinScore && r.FileOverlap >= t.MinFileOverlap
}

// SelectTop keeps the results that pass both gates, orders them by
// descending score and returns at most TopN of them. Equal scores keep their
// input order. The input slice is not modified.
func (t Thresholds) SelectTop(candidates []Result) []Result {
	kept := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if t.Passes(c) {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if t.TopN <= 0 {
		return kept[:0]
	}
	if len(kept) > t.TopN {
		kept = kept[:t.TopN]
	}
	return kept
}
