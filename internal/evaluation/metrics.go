package evaluation

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ClassificationMetrics summarises binary predictions over labels 0 and 1.
// ConfusionMatrix[actual][predicted].
type ClassificationMetrics struct {
	Accuracy         float64         `json:"accuracy"`
	BalancedAccuracy float64         `json:"balanced_accuracy"`
	MacroPrecision   float64         `json:"macro_precision"`
	MacroRecall      float64         `json:"macro_recall"`
	MacroF1          float64         `json:"macro_f1"`
	PerClassMetrics  [2]ClassMetrics `json:"per_class_metrics"`
	ConfusionMatrix  [2][2]int       `json:"confusion_matrix"`
	Correct          int             `json:"correct"`
	NumSamples       int             `json:"num_samples"`
}

type ClassMetrics struct {
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1Score     float64 `json:"f1_score"`
	Specificity float64 `json:"specificity"`
	Support     int     `json:"support"`
}

func CalculateMetrics(yTrue, yPred []int) (*ClassificationMetrics, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("true and predicted labels have different lengths: %d vs %d", len(yTrue), len(yPred))
	}

	m := &ClassificationMetrics{NumSamples: len(yTrue)}

	for i := range yTrue {
		if yTrue[i] < 0 || yTrue[i] > 1 || yPred[i] < 0 || yPred[i] > 1 {
			return nil, fmt.Errorf("labels must be 0 or 1 at sample %d", i)
		}
		m.ConfusionMatrix[yTrue[i]][yPred[i]]++
		if yTrue[i] == yPred[i] {
			m.Correct++
		}
	}

	cm := m.ConfusionMatrix
	for class := 0; class < 2; class++ {
		other := 1 - class
		tp := cm[class][class]
		fp := cm[other][class]
		fn := cm[class][other]
		tn := cm[other][other]

		precision := safeDivide(float64(tp), float64(tp+fp))
		recall := safeDivide(float64(tp), float64(tp+fn))

		m.PerClassMetrics[class] = ClassMetrics{
			Precision:   precision,
			Recall:      recall,
			F1Score:     safeDivide(2*precision*recall, precision+recall),
			Specificity: safeDivide(float64(tn), float64(tn+fp)),
			Support:     tp + fn,
		}
	}

	pc := m.PerClassMetrics
	m.Accuracy = safeDivide(float64(m.Correct), float64(m.NumSamples))
	m.MacroPrecision = (pc[0].Precision + pc[1].Precision) / 2
	m.MacroRecall = (pc[0].Recall + pc[1].Recall) / 2
	m.MacroF1 = (pc[0].F1Score + pc[1].F1Score) / 2
	m.BalancedAccuracy = m.MacroRecall

	return m, nil
}

// ExactAccuracy is Correct/NumSamples rounded half-up to places digits,
// free of binary floating point artefacts in reports.
func (m *ClassificationMetrics) ExactAccuracy(places int32) decimal.Decimal {
	if m.NumSamples == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m.Correct)).
		DivRound(decimal.NewFromInt(int64(m.NumSamples)), places+2).
		Round(places)
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0.0
	}
	return result
}

// FormatMetrics renders the summary with class names in encoder order.
func (m *ClassificationMetrics) FormatMetrics(classes []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Accuracy: %s (%d/%d)\n", m.ExactAccuracy(4).StringFixed(4), m.Correct, m.NumSamples)
	fmt.Fprintf(&b, "Balanced Accuracy: %.4f\n", m.BalancedAccuracy)
	fmt.Fprintf(&b, "Macro Avg - Precision: %.4f, Recall: %.4f, F1: %.4f\n",
		m.MacroPrecision, m.MacroRecall, m.MacroF1)

	for class, cm := range m.PerClassMetrics {
		name := fmt.Sprintf("class %d", class)
		if class < len(classes) {
			name = classes[class]
		}
		fmt.Fprintf(&b, "  %-12s precision %.4f  recall %.4f  f1 %.4f  support %d\n",
			name, cm.Precision, cm.Recall, cm.F1Score, cm.Support)
	}

	return b.String()
}
