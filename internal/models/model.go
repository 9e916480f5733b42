package models

import (
	"errors"
	"fmt"

	"phishunt/internal/sparse"
)

var ErrNotFitted = errors.New("model is not fitted")

// Classifier is a binary classifier over sparse rows whose labels are encoded
// as 0 and 1.
type Classifier interface {
	Fit(X []sparse.Vector, nFeatures int, y []int) error
	Predict(X []sparse.Vector) []int
	// PredictProba returns P(y=0), P(y=1) per row.
	PredictProba(X []sparse.Vector) [][]float64
	GetName() string
	GetParams() map[string]any
	Reset()
}

type BaseModel struct {
	Name   string
	Params map[string]any
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

func (bm *BaseModel) GetParams() map[string]any {
	return bm.Params
}

func validateTrainingSet(X []sparse.Vector, nFeatures int, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("cannot fit on an empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("x and y must have the same length: %d vs %d", len(X), len(y))
	}
	if nFeatures <= 0 {
		return fmt.Errorf("feature count must be positive, got %d", nFeatures)
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label at sample %d must be 0 or 1, got %d", i, label)
		}
	}
	return nil
}

func argmax(proba []float64) int {
	if proba[1] > proba[0] {
		return 1
	}
	return 0
}
