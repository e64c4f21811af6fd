package similarity

const (
	DefaultFileWeight = 0.6
	DefaultTextWeight = 0.4
)

// Weights controls how file overlap and text similarity combine into a score.
// The two weights are expected to sum to 1 so that the score stays in [0,1].
type Weights struct {
	File float64
	Text float64
}

// DefaultWeights returns the 0.6 / 0.4 split.
func DefaultWeights() Weights {
	return Weights{File: DefaultFileWeight, Text: DefaultTextWeight}
}

// Scores is the outcome of comparing two records.
type Scores struct {
	Score          float64
	FileOverlap    float64
	TextSimilarity float64
}

// Compute scores candidate against current with the default weights.
func Compute(current, candidate Record) Scores {
	return DefaultWeights().Compute(current, candidate)
}

// Compute scores candidate against current.
func (w Weights) Compute(current, candidate Record) Scores {
	files := FileOverlap(current.Files, candidate.Files)
	text := Jaccard(Tokenize(current.Text()), Tokenize(candidate.Text()))
	return Scores{
		Score:          w.File*files + w.Text*text,
		FileOverlap:    files,
		TextSimilarity: text,
	}
}

// Score wraps Compute into a Result for candidate.
func (w Weights) Score(current, candidate Record) Result {
	s := w.Compute(current, candidate)
	return Result{
		Score:          s.Score,
		FileOverlap:    s.FileOverlap,
		TextSimilarity: s.TextSimilarity,
		Candidate:      candidate,
	}
}

// FileOverlap is the fraction of current's files also present in candidate.
// It is measured against current only, so a superset candidate scores 1.
func FileOverlap(current, candidate FileSet) float64 {
	if len(current) == 0 {
		return 0
	}
	shared := 0
	for path := range current {
		if _, ok := candidate[path]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(current))
}
