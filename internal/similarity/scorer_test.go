package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileOverlapSupersetCandidate(t *testing.T) {
	current := Record{Number: 1, Files: NewFileSet("a.py", "b.py")}
	candidate := Record{Number: 2, Files: NewFileSet("a.py", "b.py", "c.py")}

	got := Compute(current, candidate)
	assert.Equal(t, 1.0, got.FileOverlap)
}

func TestFileOverlapEmptyCurrent(t *testing.T) {
	current := Record{Number: 1}
	candidate := Record{Number: 2, Files: NewFileSet("a.py")}

	got := Compute(current, candidate)
	assert.Equal(t, 0.0, got.FileOverlap)
}

func TestFileOverlapIsAsymmetric(t *testing.T) {
	small := NewFileSet("a.go")
	large := NewFileSet("a.go", "b.go", "c.go", "d.go")

	assert.Equal(t, 1.0, FileOverlap(small, large))
	assert.Equal(t, 0.25, FileOverlap(large, small))
}

func TestTextSimilarityIdenticalTitles(t *testing.T) {
	current := Record{Number: 1, Title: "Fix login bug"}
	candidate := Record{Number: 2, Title: "Fix login bug"}

	got := Compute(current, candidate)
	assert.Equal(t, 1.0, got.TextSimilarity)
}

func TestTextSimilarityBothEmpty(t *testing.T) {
	got := Compute(Record{Number: 1}, Record{Number: 2})
	assert.Equal(t, 0.0, got.TextSimilarity)
	assert.Equal(t, 0.0, got.Score)
}

func TestScoreIsWeightedSum(t *testing.T) {
	records := []Record{
		{},
		{Title: "Fix login bug"},
		{Title: "Fix login bug", Body: "The session cookie was dropped", Files: NewFileSet("auth/login.go")},
		{Title: "Refactor auth", Files: NewFileSet("auth/login.go", "auth/session.go", "README.md")},
		{Body: "docs only", Files: NewFileSet("README.md")},
	}
	for i, cur := range records {
		for j, cand := range records {
			got := Compute(cur, cand)
			assert.InDeltaf(t, 0.6*got.FileOverlap+0.4*got.TextSimilarity, got.Score, 1e-12, "pair %d/%d", i, j)
			for _, v := range []float64{got.Score, got.FileOverlap, got.TextSimilarity} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestCustomWeights(t *testing.T) {
	w := Weights{File: 0.5, Text: 0.5}
	current := Record{Title: "add cache", Files: NewFileSet("cache.go", "cache_test.go")}
	candidate := Record{Title: "add cache layer", Files: NewFileSet("cache.go")}

	r := w.Score(current, candidate)
	assert.Equal(t, 0.5, r.FileOverlap)
	assert.InDelta(t, 2.0/3.0, r.TextSimilarity, 1e-9)
	assert.InDelta(t, 0.5*0.5+0.5*(2.0/3.0), r.Score, 1e-9)
	assert.Equal(t, candidate.Title, r.Candidate.Title)
}
