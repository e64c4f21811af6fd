package similarity

import "strings"

// TokenSet is a set of normalized word tokens.
type TokenSet map[string]struct{}

// Tokenize lower-cases text and returns the distinct maximal runs of
// [a-z0-9_] it contains.
func Tokenize(text string) TokenSet {
	tokens := TokenSet{}
	// Unicode simple case mapping: "İ" lowers to "i", not "i" + U+0307.
	lower := strings.ToLower(text)
	start := -1
	for i := 0; i < len(lower); i++ {
		if isTokenByte(lower[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens[lower[start:i]] = struct{}{}
			start = -1
		}
	}
	if start >= 0 {
		tokens[lower[start:]] = struct{}{}
	}
	return tokens
}

func isTokenByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets score 0.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
