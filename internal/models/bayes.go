package models

import (
	"fmt"
	"math"

	"phishunt/internal/sparse"
)

// NaiveBayes is a multinomial naive Bayes over non-negative feature weights
// with additive (Laplace/Lidstone) smoothing.
type NaiveBayes struct {
	BaseModel
	Alpha           float64
	ClassLogPriors  [2]float64
	FeatureLogProbs [2][]float64
	fitted          bool
}

func NewNaiveBayes(alpha float64) *NaiveBayes {
	return &NaiveBayes{
		Alpha: alpha,
		BaseModel: BaseModel{
			Name: "NaiveBayes",
			Params: map[string]any{
				"alpha": alpha,
			},
		},
	}
}

func (nb *NaiveBayes) Fit(X []sparse.Vector, nFeatures int, y []int) error {
	if err := validateTrainingSet(X, nFeatures, y); err != nil {
		return err
	}
	if nb.Alpha <= 0 {
		return fmt.Errorf("alpha must be positive, got %g", nb.Alpha)
	}

	var classCount [2]float64
	var featureCount [2][]float64
	featureCount[0] = make([]float64, nFeatures)
	featureCount[1] = make([]float64, nFeatures)

	for i, row := range X {
		class := y[i]
		classCount[class]++
		for k, idx := range row.Indices {
			if row.Values[k] < 0 {
				return fmt.Errorf("negative feature value at sample %d, feature %d", i, idx)
			}
			featureCount[class][idx] += row.Values[k]
		}
	}

	total := float64(len(X))
	for class := 0; class < 2; class++ {
		// An absent class keeps a tiny prior rather than -Inf so scoring stays finite.
		prior := classCount[class] / total
		if prior == 0 {
			prior = 1 / (total + 1)
		}
		nb.ClassLogPriors[class] = math.Log(prior)

		sum := 0.0
		for _, c := range featureCount[class] {
			sum += c
		}
		denom := sum + nb.Alpha*float64(nFeatures)

		nb.FeatureLogProbs[class] = make([]float64, nFeatures)
		for j, c := range featureCount[class] {
			nb.FeatureLogProbs[class][j] = math.Log((c + nb.Alpha) / denom)
		}
	}

	nb.fitted = true
	return nil
}

func (nb *NaiveBayes) jointLogLikelihood(row sparse.Vector) [2]float64 {
	var jll [2]float64
	for class := 0; class < 2; class++ {
		jll[class] = nb.ClassLogPriors[class] + row.Dot(nb.FeatureLogProbs[class])
	}
	return jll
}

func (nb *NaiveBayes) PredictProba(X []sparse.Vector) [][]float64 {
	proba := make([][]float64, len(X))
	if !nb.fitted {
		for i := range proba {
			proba[i] = []float64{0.5, 0.5}
		}
		return proba
	}

	for i, row := range X {
		jll := nb.jointLogLikelihood(row)
		maxLog := math.Max(jll[0], jll[1])
		e0 := math.Exp(jll[0] - maxLog)
		e1 := math.Exp(jll[1] - maxLog)
		proba[i] = []float64{e0 / (e0 + e1), e1 / (e0 + e1)}
	}

	return proba
}

func (nb *NaiveBayes) Predict(X []sparse.Vector) []int {
	predictions := make([]int, len(X))
	for i, p := range nb.PredictProba(X) {
		predictions[i] = argmax(p)
	}
	return predictions
}

func (nb *NaiveBayes) Reset() {
	nb.ClassLogPriors = [2]float64{}
	nb.FeatureLogProbs = [2][]float64{}
	nb.fitted = false
}
