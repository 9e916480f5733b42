package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishunt/internal/tokenizer"
)

func TestLabelEncoder(t *testing.T) {
	le := NewLabelEncoder()

	_, err := le.Transform([]string{"good"})
	assert.ErrorIs(t, err, ErrNotFitted)

	y, err := le.FitTransform([]string{"good", "bad", "good", "bad"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad", "good"}, le.Classes)
	assert.Equal(t, []int{1, 0, 1, 0}, y)

	labels, err := le.InverseTransform([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad", "good"}, labels)

	_, err = le.Transform([]string{"ugly"})
	assert.Error(t, err)
	_, err = le.InverseTransform([]int{7})
	assert.Error(t, err)
}

func TestTfidfVectorizer_Fit(t *testing.T) {
	v := NewTfidfVectorizer(tokenizer.Tokenize)
	require.NoError(t, v.Fit([]string{"google.com", "Google.com/maps", "wikipedia.org"}))

	assert.Equal(t, []string{"google", "google.com", "maps", "org", "wikipedia", "wikipedia.org"}, v.FeatureNames)
	assert.Equal(t, 6, v.VocabularySize())
	assert.Equal(t, 3, v.NumDocuments)

	// "google" occurs in two of three documents, "maps" in one.
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF[v.Vocabulary["google"]], 1e-12)
	assert.InDelta(t, math.Log(4.0/2.0)+1, v.IDF[v.Vocabulary["maps"]], 1e-12)
}

func TestTfidfVectorizer_Transform(t *testing.T) {
	v := NewTfidfVectorizer(tokenizer.Tokenize)
	_, err := v.TransformOne("x")
	assert.ErrorIs(t, err, ErrNotFitted)

	X, err := v.FitTransform([]string{"paypal-secure.com/login", "google.com", "wikipedia.org"})
	require.NoError(t, err)
	require.Len(t, X, 3)

	for _, row := range X {
		assert.InDelta(t, 1.0, row.Norm(), 1e-12)
		for k := 1; k < len(row.Indices); k++ {
			assert.Less(t, row.Indices[k-1], row.Indices[k])
		}
	}

	unseen, err := v.TransformOne("http://totally-unseen.example/zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, unseen.Len())

	partial, err := v.TransformOne("http://paypal-secure.com.evil.ru/login")
	require.NoError(t, err)
	assert.Greater(t, partial.Len(), 0)
	for _, idx := range partial.Indices {
		assert.Less(t, idx, v.VocabularySize())
	}

	again, err := v.TransformOne("http://paypal-secure.com.evil.ru/login")
	require.NoError(t, err)
	assert.Equal(t, partial, again)
}

func TestTfidfVectorizer_EmptyVocabulary(t *testing.T) {
	v := NewTfidfVectorizer(tokenizer.Tokenize)
	assert.ErrorIs(t, v.Fit(nil), ErrEmptyVocabulary)
	assert.ErrorIs(t, v.Fit([]string{"com", "", "//"}), ErrEmptyVocabulary)
	assert.False(t, v.IsFitted)
}
