package ml

import "github.com/pkg/errors"

var (
	// ErrInvalidInput marks a profile field that violates its constraints.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUntrainedModel marks an inference attempt with no trained state.
	ErrUntrainedModel = errors.New("model not trained")

	// ErrTrainingDegenerate marks a training run that cannot produce a
	// usable classifier (zero-variance feature, diverging fit).
	ErrTrainingDegenerate = errors.New("degenerate training population")
)
