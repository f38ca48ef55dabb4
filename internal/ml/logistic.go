package ml

import (
	"math"

	"github.com/pkg/errors"
)

// Gradient-descent settings. Fixed so training is deterministic for a given
// population.
const (
	gdLearningRate = 0.5
	gdEpochs       = 600
)

// LogisticRegression is a binary probabilistic classifier over the six
// standardized indicators: a linear combination plus bias squashed through
// a sigmoid.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains the classifier with batch gradient descent. It fails with
// ErrTrainingDegenerate when the population cannot produce a finite fit,
// so a broken model never reaches inference.
func (m *LogisticRegression) Fit(rows [][]float64, labels []int) error {
	if len(rows) == 0 {
		return errors.Wrap(ErrTrainingDegenerate, "no training rows")
	}
	if len(rows) != len(labels) {
		return errors.Wrapf(ErrTrainingDegenerate, "rows/labels mismatch: %d vs %d", len(rows), len(labels))
	}

	hasPos, hasNeg := false, false
	for _, y := range labels {
		if y == 1 {
			hasPos = true
		} else {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return errors.Wrap(ErrTrainingDegenerate, "training labels contain a single class")
	}

	dims := len(rows[0])
	w := make([]float64, dims)
	var b float64
	n := float64(len(rows))

	gradW := make([]float64, dims)
	for epoch := 0; epoch < gdEpochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		var gradB float64

		for i, row := range rows {
			z := b
			for j, v := range row {
				z += w[j] * v
			}
			diff := sigmoid(z) - float64(labels[i])
			for j, v := range row {
				gradW[j] += diff * v
			}
			gradB += diff
		}

		for j := range w {
			w[j] -= gdLearningRate * gradW[j] / n
		}
		b -= gdLearningRate * gradB / n
	}

	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrap(ErrTrainingDegenerate, "fit diverged to a non-finite weight")
		}
	}
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return errors.Wrap(ErrTrainingDegenerate, "fit diverged to a non-finite bias")
	}

	m.Weights = w
	m.Bias = b
	return nil
}

// PredictProba returns P(creditworthy) for one standardized vector,
// always in [0,1].
func (m *LogisticRegression) PredictProba(row []float64) float64 {
	z := m.Bias
	for j, v := range row {
		z += m.Weights[j] * v
	}
	return sigmoid(z)
}

// Predict thresholds PredictProba at 0.5.
func (m *LogisticRegression) Predict(row []float64) int {
	if m.PredictProba(row) >= 0.5 {
		return 1
	}
	return 0
}
