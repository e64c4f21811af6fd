package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "whitespace only", in: " \t\n ", want: nil},
		{name: "lower-cases and dedupes", in: "Fix fix FIX login", want: []string{"fix", "login"}},
		{name: "keeps underscores and digits", in: "retry_count v2", want: []string{"retry_count", "v2"}},
		{name: "splits on punctuation", in: "auth/login.go: nil-pointer", want: []string{"auth", "login", "go", "nil", "pointer"}},
		{name: "drops non-ascii letters", in: "café naïve", want: []string{"caf", "na", "ve"}},
		{name: "dotted capital i lowers to ascii i", in: "İstanbul", want: []string{"istanbul"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			require.Len(t, got, len(tt.want))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestTokenizeOnlyProducesNormalizedTokens(t *testing.T) {
	inputs := []string{
		"Bump github.com/foo/bar from 1.2.3 to 1.2.4",
		"## Summary\r\n- Adds `MaxRetries` to Config\n- fixes #123",
		"ÄÖÜ ß 日本語 mixed_Case-ID",
	}
	for _, in := range inputs {
		for tok := range Tokenize(in) {
			require.NotEmpty(t, tok)
			for i := 0; i < len(tok); i++ {
				assert.Truef(t, isTokenByte(tok[i]), "token %q from %q has byte %q", tok, in, tok[i])
			}
		}
	}
}

func TestJaccard(t *testing.T) {
	a := Tokenize("fix login bug")
	b := Tokenize("fix logout bug")

	assert.Equal(t, 0.0, Jaccard(TokenSet{}, TokenSet{}))
	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, 0.0, Jaccard(a, TokenSet{}))
	assert.InDelta(t, 2.0/4.0, Jaccard(a, b), 1e-9)
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))

	j := Jaccard(Tokenize("one two three"), Tokenize("three four"))
	assert.GreaterOrEqual(t, j, 0.0)
	assert.LessOrEqual(t, j, 1.0)
}
