package tokenizer

import (
	"math"
	"sort"
	"strings"
)

// Excluded is dropped from every token set; it appears in most URLs of the corpus.
const Excluded = "com"

// Tokenize splits a URL on '/', then each piece on '-', then each of those on '.',
// and returns the union of the pieces produced at every level. The result is
// deduplicated and sorted. Empty pieces and Excluded are not returned.
func Tokenize(url string) []string {
	seen := make(map[string]struct{})

	add := func(token string) {
		if token == "" || token == Excluded {
			return
		}
		seen[token] = struct{}{}
	}

	for _, bySlash := range strings.Split(url, "/") {
		add(bySlash)
		for _, byDash := range strings.Split(bySlash, "-") {
			add(byDash)
			for _, byDot := range strings.Split(byDash, ".") {
				add(byDot)
			}
		}
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Entropy returns the Shannon entropy of s in bits per byte.
func Entropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}

	var entropy float64
	total := float64(len(s))
	for _, count := range counts {
		if count > 0 {
			p := float64(count) / total
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
