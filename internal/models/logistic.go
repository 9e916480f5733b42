package models

import (
	"fmt"
	"math"

	"phishunt/internal/sparse"
)

// LogisticRegression is an L2-regularised binary logistic regression fitted by
// full-batch gradient descent from zero weights. It minimises
//
//	mean(logloss) + ||w||² / (2·C·n)
//
// which matches the usual C-scaled objective divided by n. The intercept is
// not penalised.
type LogisticRegression struct {
	BaseModel
	C            float64
	LearningRate float64
	MaxIter      int
	Tol          float64

	Weights   []float64
	Intercept float64
	NIter     int
	Converged bool
}

func NewLogisticRegression(c, learningRate float64, maxIter int, tol float64) *LogisticRegression {
	return &LogisticRegression{
		C:            c,
		LearningRate: learningRate,
		MaxIter:      maxIter,
		Tol:          tol,
		BaseModel: BaseModel{
			Name: "LogisticRegression",
			Params: map[string]any{
				"c":             c,
				"learning_rate": learningRate,
				"max_iter":      maxIter,
				"tol":           tol,
			},
		},
	}
}

func (lr *LogisticRegression) Fit(X []sparse.Vector, nFeatures int, y []int) error {
	if err := validateTrainingSet(X, nFeatures, y); err != nil {
		return err
	}
	if lr.C <= 0 {
		return fmt.Errorf("c must be positive, got %g", lr.C)
	}

	n := float64(len(X))
	lambda := 1 / (lr.C * n)

	lr.Weights = make([]float64, nFeatures)
	lr.Intercept = 0
	lr.Converged = false
	grad := make([]float64, nFeatures)

	for iter := 0; iter < lr.MaxIter; iter++ {
		for j := range grad {
			grad[j] = lambda * lr.Weights[j]
		}
		gradIntercept := 0.0

		for i, row := range X {
			residual := (sigmoid(row.Dot(lr.Weights)+lr.Intercept) - float64(y[i])) / n
			row.AddScaled(grad, residual)
			gradIntercept += residual
		}

		maxGrad := math.Abs(gradIntercept)
		for _, g := range grad {
			if a := math.Abs(g); a > maxGrad {
				maxGrad = a
			}
		}

		lr.NIter = iter + 1
		if maxGrad < lr.Tol {
			lr.Converged = true
			break
		}

		for j := range lr.Weights {
			lr.Weights[j] -= lr.LearningRate * grad[j]
		}
		lr.Intercept -= lr.LearningRate * gradIntercept
	}

	return nil
}

// DecisionFunction returns the log-odds of class 1 per row.
func (lr *LogisticRegression) DecisionFunction(X []sparse.Vector) []float64 {
	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = row.Dot(lr.Weights) + lr.Intercept
	}
	return scores
}

func (lr *LogisticRegression) PredictProba(X []sparse.Vector) [][]float64 {
	proba := make([][]float64, len(X))
	for i, score := range lr.DecisionFunction(X) {
		p := sigmoid(score)
		proba[i] = []float64{1 - p, p}
	}
	return proba
}

func (lr *LogisticRegression) Predict(X []sparse.Vector) []int {
	predictions := make([]int, len(X))
	for i, score := range lr.DecisionFunction(X) {
		if score > 0 {
			predictions[i] = 1
		}
	}
	return predictions
}

// Coefficients exposes the per-feature weights, indexed like the vocabulary.
func (lr *LogisticRegression) Coefficients() []float64 {
	return lr.Weights
}

func (lr *LogisticRegression) Reset() {
	lr.Weights = nil
	lr.Intercept = 0
	lr.NIter = 0
	lr.Converged = false
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
