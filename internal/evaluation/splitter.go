package evaluation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// TrainTestSplitter partitions sample indices into training and holdout sets.
// The holdout size is ceil(testSize·n); the same seed always yields the same
// partition for the same n.
type TrainTestSplitter struct {
	testSize   float64
	randomSeed int64
	shuffle    bool
}

func NewTrainTestSplitter(testSize float64, randomSeed int64, shuffle bool) *TrainTestSplitter {
	return &TrainTestSplitter{
		testSize:   testSize,
		randomSeed: randomSeed,
		shuffle:    shuffle,
	}
}

func (tts *TrainTestSplitter) testCount(n int) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("cannot split empty dataset")
	}
	if tts.testSize <= 0 || tts.testSize >= 1 {
		return 0, fmt.Errorf("test size must be between 0 and 1, got %g", tts.testSize)
	}

	testCount := int(math.Ceil(float64(n) * tts.testSize))
	if n-testCount < 1 {
		return 0, fmt.Errorf("dataset of %d samples is too small for test size %g", n, tts.testSize)
	}
	return testCount, nil
}

func (tts *TrainTestSplitter) SplitIndices(n int) ([]int, []int, error) {
	testCount, err := tts.testCount(n)
	if err != nil {
		return nil, nil, err
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	if tts.shuffle {
		rng := rand.New(rand.NewSource(tts.randomSeed))
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	trainCount := n - testCount
	return indices[:trainCount], indices[trainCount:], nil
}

// StratifiedSplitIndices keeps each label's share roughly equal in both
// partitions. Every class with at least two samples lands in both.
func (tts *TrainTestSplitter) StratifiedSplitIndices(y []int) ([]int, []int, error) {
	if _, err := tts.testCount(len(y)); err != nil {
		return nil, nil, err
	}

	classIndices := make(map[int][]int)
	for i, label := range y {
		classIndices[label] = append(classIndices[label], i)
	}

	classes := make([]int, 0, len(classIndices))
	for class := range classIndices {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	var trainIndices, testIndices []int

	rng := rand.New(rand.NewSource(tts.randomSeed))
	for _, class := range classes {
		indices := classIndices[class]
		if tts.shuffle {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		testCount := int(math.Ceil(float64(len(indices)) * tts.testSize))
		if testCount >= len(indices) {
			testCount = len(indices) - 1
		}

		trainCount := len(indices) - testCount
		trainIndices = append(trainIndices, indices[:trainCount]...)
		testIndices = append(testIndices, indices[trainCount:]...)
	}

	if tts.shuffle {
		rng.Shuffle(len(trainIndices), func(i, j int) {
			trainIndices[i], trainIndices[j] = trainIndices[j], trainIndices[i]
		})
		rng.Shuffle(len(testIndices), func(i, j int) {
			testIndices[i], testIndices[j] = testIndices[j], testIndices[i]
		})
	}

	return trainIndices, testIndices, nil
}

type KFoldSplitter struct {
	nFolds     int
	shuffle    bool
	randomSeed int64
}

func NewKFoldSplitter(nFolds int, shuffle bool, randomSeed int64) *KFoldSplitter {
	return &KFoldSplitter{
		nFolds:     nFolds,
		shuffle:    shuffle,
		randomSeed: randomSeed,
	}
}

// Split returns the holdout indices of each fold. The last fold absorbs the remainder.
func (kfs *KFoldSplitter) Split(n int) ([][]int, error) {
	if kfs.nFolds < 2 || kfs.nFolds > n {
		return nil, fmt.Errorf("number of folds must be between 2 and %d, got %d", n, kfs.nFolds)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	if kfs.shuffle {
		rng := rand.New(rand.NewSource(kfs.randomSeed))
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([][]int, kfs.nFolds)
	foldSize := n / kfs.nFolds

	for fold := 0; fold < kfs.nFolds; fold++ {
		start := fold * foldSize
		end := start + foldSize
		if fold == kfs.nFolds-1 {
			end = n
		}

		folds[fold] = make([]int, end-start)
		copy(folds[fold], indices[start:end])
	}

	return folds, nil
}

// Complement returns 0..n-1 minus the given indices, in ascending order.
func Complement(n int, exclude []int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, idx := range exclude {
		excluded[idx] = true
	}

	out := make([]int, 0, n-len(exclude))
	for i := 0; i < n; i++ {
		if !excluded[i] {
			out = append(out, i)
		}
	}
	return out
}
