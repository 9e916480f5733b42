package evaluation

import (
	"fmt"
	"math"
)

// FoldFunc fits on trainIdx and returns the holdout score on testIdx.
type FoldFunc func(trainIdx, testIdx []int) (float64, error)

type CrossValidator struct {
	NFolds     int
	Shuffle    bool
	RandomSeed int64
}

func NewCrossValidator(nFolds int, randomSeed int64) *CrossValidator {
	return &CrossValidator{
		NFolds:     nFolds,
		Shuffle:    true,
		RandomSeed: randomSeed,
	}
}

// CrossValidate runs folds one after another and returns per-fold scores with
// their mean and sample standard deviation.
func (cv *CrossValidator) CrossValidate(n int, evaluate FoldFunc) ([]float64, float64, float64, error) {
	folds, err := NewKFoldSplitter(cv.NFolds, cv.Shuffle, cv.RandomSeed).Split(n)
	if err != nil {
		return nil, 0, 0, err
	}

	scores := make([]float64, len(folds))
	for i, testIdx := range folds {
		score, err := evaluate(Complement(n, testIdx), testIdx)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("fold %d failed: %w", i, err)
		}
		scores[i] = score
	}

	mean, std := calculateStats(scores)
	return scores, mean, std, nil
}

func calculateStats(scores []float64) (mean, std float64) {
	if len(scores) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean = sum / float64(len(scores))

	if len(scores) > 1 {
		variance := 0.0
		for _, s := range scores {
			diff := s - mean
			variance += diff * diff
		}
		variance /= float64(len(scores) - 1)
		std = math.Sqrt(variance)
	}

	return mean, std
}
