package evaluation

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIndices(t *testing.T) {
	splitter := NewTrainTestSplitter(0.2, 42, true)

	train, test, err := splitter.SplitIndices(10)
	require.NoError(t, err)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	train2, test2, err := splitter.SplitIndices(10)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestSplitIndices_RoundsHoldoutUp(t *testing.T) {
	train, test, err := NewTrainTestSplitter(0.2, 42, true).SplitIndices(4)
	require.NoError(t, err)
	assert.Len(t, train, 3)
	assert.Len(t, test, 1)

	train, test, err = NewTrainTestSplitter(0.25, 1, false).SplitIndices(4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, train)
	assert.Equal(t, []int{3}, test)
}

func TestSplitIndices_Errors(t *testing.T) {
	_, _, err := NewTrainTestSplitter(0.2, 42, true).SplitIndices(0)
	assert.Error(t, err)

	_, _, err = NewTrainTestSplitter(0.2, 42, true).SplitIndices(1)
	assert.Error(t, err)

	_, _, err = NewTrainTestSplitter(1.0, 1, true).SplitIndices(10)
	assert.Error(t, err)
}

func TestStratifiedSplitIndices(t *testing.T) {
	y := []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1}
	train, test, err := NewTrainTestSplitter(0.2, 3, true).StratifiedSplitIndices(y)
	require.NoError(t, err)

	count := func(idx []int, class int) int {
		n := 0
		for _, i := range idx {
			if y[i] == class {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 2, count(test, 0))
	assert.Equal(t, 1, count(test, 1))
	assert.Equal(t, 1, count(train, 1))
	assert.Len(t, train, 7)
}

func TestKFoldSplitter(t *testing.T) {
	folds, err := NewKFoldSplitter(3, true, 9).Split(10)
	require.NoError(t, err)
	require.Len(t, folds, 3)
	assert.Len(t, folds[0], 3)
	assert.Len(t, folds[2], 4)

	var all []int
	for _, f := range folds {
		all = append(all, f...)
	}
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	_, err = NewKFoldSplitter(1, true, 9).Split(10)
	assert.Error(t, err)
	_, err = NewKFoldSplitter(11, true, 9).Split(10)
	assert.Error(t, err)
}

func TestComplement(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, Complement(5, []int{3, 1}))
	assert.Equal(t, []int{}, Complement(2, []int{0, 1}))
}

func TestCalculateMetrics(t *testing.T) {
	yTrue := []int{0, 0, 0, 1, 1, 1}
	yPred := []int{0, 0, 1, 1, 1, 0}

	m, err := CalculateMetrics(yTrue, yPred)
	require.NoError(t, err)

	assert.Equal(t, [2][2]int{{2, 1}, {1, 2}}, m.ConfusionMatrix)
	assert.Equal(t, 4, m.Correct)
	assert.InDelta(t, 4.0/6.0, m.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.PerClassMetrics[1].Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.PerClassMetrics[1].Recall, 1e-12)
	assert.Equal(t, 3, m.PerClassMetrics[0].Support)
	assert.Equal(t, "0.6667", m.ExactAccuracy(4).StringFixed(4))

	report := m.FormatMetrics([]string{"bad", "good"})
	assert.True(t, strings.HasPrefix(report, "Accuracy: 0.6667 (4/6)"))
	assert.Contains(t, report, "bad")
	assert.Contains(t, report, "good")
}

func TestCalculateMetrics_Errors(t *testing.T) {
	_, err := CalculateMetrics([]int{0}, []int{0, 1})
	assert.Error(t, err)

	_, err = CalculateMetrics([]int{2}, []int{0})
	assert.Error(t, err)

	m, err := CalculateMetrics(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Accuracy)
	assert.True(t, m.ExactAccuracy(4).IsZero())
}

func TestCrossValidate(t *testing.T) {
	cv := NewCrossValidator(4, 5)

	seen := make(map[int]int)
	scores, mean, std, err := cv.CrossValidate(8, func(trainIdx, testIdx []int) (float64, error) {
		assert.Len(t, trainIdx, 8-len(testIdx))
		for _, idx := range testIdx {
			seen[idx]++
		}
		return float64(len(testIdx)) / 2, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 1, 1}, scores)
	assert.Equal(t, 1.0, mean)
	assert.Equal(t, 0.0, std)
	assert.Len(t, seen, 8)

	boom := errors.New("boom")
	_, _, _, err = cv.CrossValidate(8, func(_, _ []int) (float64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
