package preprocessing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"phishunt/internal/sparse"
)

var (
	ErrNotFitted       = errors.New("not fitted")
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)

type TokenizerFunc func(string) []string

// TfidfVectorizer learns a vocabulary and smoothed inverse document frequencies
// from a corpus, then maps documents to L2-normalised sparse TF-IDF rows.
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
type TfidfVectorizer struct {
	Tokenizer    TokenizerFunc
	Lowercase    bool
	Vocabulary   map[string]int
	FeatureNames []string
	IDF          []float64
	NumDocuments int
	IsFitted     bool
}

func NewTfidfVectorizer(tokenizer TokenizerFunc) *TfidfVectorizer {
	return &TfidfVectorizer{
		Tokenizer: tokenizer,
		Lowercase: true,
	}
}

func (v *TfidfVectorizer) Fit(docs []string) error {
	if v.Tokenizer == nil {
		return fmt.Errorf("vectorizer has no tokenizer")
	}
	if len(docs) == 0 {
		return fmt.Errorf("cannot fit on zero documents: %w", ErrEmptyVocabulary)
	}

	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, token := range v.tokens(doc) {
			if !seen[token] {
				seen[token] = true
				docFreq[token]++
			}
		}
	}

	if len(docFreq) == 0 {
		return ErrEmptyVocabulary
	}

	names := make([]string, 0, len(docFreq))
	for token := range docFreq {
		names = append(names, token)
	}
	sort.Strings(names)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(names))
	v.IDF = make([]float64, len(names))
	for idx, token := range names {
		v.Vocabulary[token] = idx
		v.IDF[idx] = math.Log((1+n)/(1+float64(docFreq[token]))) + 1
	}
	v.FeatureNames = names
	v.NumDocuments = len(docs)
	v.IsFitted = true

	return nil
}

// TransformOne ignores tokens outside the fitted vocabulary. A document with no
// known tokens maps to the empty vector.
func (v *TfidfVectorizer) TransformOne(doc string) (sparse.Vector, error) {
	if !v.IsFitted {
		return sparse.Vector{}, fmt.Errorf("vectorizer must be fitted before transform: %w", ErrNotFitted)
	}

	counts := make(map[int]int)
	for _, token := range v.tokens(doc) {
		if idx, ok := v.Vocabulary[token]; ok {
			counts[idx]++
		}
	}

	vec := sparse.Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, float64(counts[idx])*v.IDF[idx])
	}

	if norm := vec.Norm(); norm > 0 {
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}

	return vec, nil
}

func (v *TfidfVectorizer) Transform(docs []string) ([]sparse.Vector, error) {
	result := make([]sparse.Vector, len(docs))
	for i, doc := range docs {
		vec, err := v.TransformOne(doc)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (v *TfidfVectorizer) FitTransform(docs []string) ([]sparse.Vector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

func (v *TfidfVectorizer) VocabularySize() int {
	return len(v.FeatureNames)
}

func (v *TfidfVectorizer) tokens(doc string) []string {
	if v.Lowercase {
		doc = strings.ToLower(doc)
	}
	return v.Tokenizer(doc)
}
