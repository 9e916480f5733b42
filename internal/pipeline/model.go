package pipeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"phishunt/internal/evaluation"
	"phishunt/internal/models"
	"phishunt/internal/preprocessing"
	"phishunt/internal/sparse"
)

// Report describes how a Model was produced.
type Report struct {
	RunID             string                            `json:"run_id"`
	Dataset           string                            `json:"dataset"`
	Algorithm         string                            `json:"algorithm"`
	Classifier        string                            `json:"classifier"`
	Params            map[string]any                    `json:"params"`
	RowsLoaded        int                               `json:"rows_loaded"`
	RowsSkipped       int                               `json:"rows_skipped"`
	Classes           []string                          `json:"classes"`
	ClassDistribution map[string]int                    `json:"class_distribution"`
	DatasetStats      map[string]any                    `json:"dataset_stats"`
	VocabularySize    int                               `json:"vocabulary_size"`
	TrainSize         int                               `json:"train_size"`
	HoldoutSize       int                               `json:"holdout_size"`
	Holdout           *evaluation.ClassificationMetrics `json:"holdout"`
	ShuffleSeed       int64                             `json:"shuffle_seed"`
	SplitSeed         int64                             `json:"split_seed"`
	Duration          time.Duration                     `json:"duration_ns"`
	TrainedAt         time.Time                         `json:"trained_at"`
}

// Model is a fitted vectorizer and classifier pair. It is not modified after
// training and is safe for concurrent use.
type Model struct {
	Vectorizer *preprocessing.TfidfVectorizer
	Classifier models.Classifier
	Encoder    *preprocessing.LabelEncoder
	Report     Report
}

// Predict returns one of the training labels for url. Tokens unseen during
// training are ignored.
func (m *Model) Predict(url string) (string, error) {
	labels, err := m.PredictBatch([]string{url})
	if err != nil {
		return "", err
	}
	return labels[0], nil
}

func (m *Model) PredictBatch(urls []string) ([]string, error) {
	X, err := m.Vectorizer.Transform(urls)
	if err != nil {
		return nil, err
	}
	return m.Encoder.InverseTransform(m.Classifier.Predict(X))
}

// PredictProba returns the probability of each training label for url.
func (m *Model) PredictProba(url string) (map[string]float64, error) {
	vec, err := m.Vectorizer.TransformOne(url)
	if err != nil {
		return nil, err
	}

	proba := m.Classifier.PredictProba([]sparse.Vector{vec})[0]
	out := make(map[string]float64, len(proba))
	for class, p := range proba {
		label, ok := m.Encoder.IntToClass[class]
		if !ok {
			return nil, fmt.Errorf("unknown encoding: %d", class)
		}
		out[label] = p
	}
	return out, nil
}

// Contribution is one token's push towards a label for a specific URL.
type Contribution struct {
	Token  string  `json:"token"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
	Toward string  `json:"toward"`
}

// Explain returns up to k tokens of url with the largest absolute influence on
// the decision. Weight is the classifier's per-token evidence for the second
// label over the first; Score is Weight scaled by the token's TF-IDF value.
func (m *Model) Explain(url string, k int) ([]Contribution, error) {
	vec, err := m.Vectorizer.TransformOne(url)
	if err != nil {
		return nil, err
	}

	weights, err := m.tokenWeights()
	if err != nil {
		return nil, err
	}

	contributions := make([]Contribution, 0, vec.Len())
	for n, idx := range vec.Indices {
		c := Contribution{
			Token:  m.Vectorizer.FeatureNames[idx],
			Value:  vec.Values[n],
			Weight: weights[idx],
		}
		c.Score = c.Value * c.Weight
		if c.Score >= 0 {
			c.Toward = m.Encoder.Classes[1]
		} else {
			c.Toward = m.Encoder.Classes[0]
		}
		contributions = append(contributions, c)
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Score) > math.Abs(contributions[j].Score)
	})

	if k > 0 && len(contributions) > k {
		contributions = contributions[:k]
	}
	return contributions, nil
}

func (m *Model) tokenWeights() ([]float64, error) {
	switch c := m.Classifier.(type) {
	case *models.LogisticRegression:
		if c.Weights == nil {
			return nil, models.ErrNotFitted
		}
		return c.Coefficients(), nil
	case *models.NaiveBayes:
		if c.FeatureLogProbs[1] == nil {
			return nil, models.ErrNotFitted
		}
		w := make([]float64, len(c.FeatureLogProbs[1]))
		for j := range w {
			w[j] = c.FeatureLogProbs[1][j] - c.FeatureLogProbs[0][j]
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%s does not expose per-token weights", m.Classifier.GetName())
	}
}
