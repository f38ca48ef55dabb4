package ml

import (
	"math"

	"github.com/pkg/errors"
)

// scaleFloor keeps a degenerate (constant) feature from blowing up the
// transform. Training still rejects such populations; the floor only
// protects the arithmetic.
const scaleFloor = 1e-9

// Scaler standardizes feature vectors with the mean and spread observed at
// training time. The same fitted scaler must be applied at training and
// inference; it is never refit on inference inputs.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-feature mean and standard deviation over the
// training population.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrTrainingDegenerate, "no rows to fit scaler")
	}

	dims := len(rows[0])
	mean := make([]float64, dims)
	scale := make([]float64, dims)

	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] < scaleFloor {
			scale[j] = scaleFloor
		}
	}

	return &Scaler{Mean: mean, Scale: scale}, nil
}

// Transform standardizes one vector with the fitted parameters.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// Degenerate reports whether any feature had effectively zero variance
// across the fitted population.
func (s *Scaler) Degenerate() bool {
	for _, sc := range s.Scale {
		if sc <= scaleFloor {
			return true
		}
	}
	return false
}
