package ml

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/creditbridge/scoring-service/internal/utils"
)

// StateStore is the opaque blob handle the engine persists its trained state
// through. The caller owns placement (file, database row, anything).
type StateStore interface {
	Save(blob []byte) error
	// Load returns the last-saved blob, or found=false when nothing was
	// ever saved.
	Load() (blob []byte, found bool, err error)
}

// modelState is one immutable trained snapshot: the scaler and classifier
// are fitted together and only ever swapped together.
type modelState struct {
	Scaler     *Scaler             `json:"scaler"`
	Classifier *LogisticRegression `json:"classifier"`
	Samples    int                 `json:"samples"`
	Seed       int64               `json:"seed"`
	Accuracy   float64             `json:"accuracy"`
	TrainedAt  time.Time           `json:"trained_at"`
}

// stateEnvelope wraps the serialized snapshot with an integrity tag so a
// tampered or truncated blob is rejected at load instead of mis-scoring.
type stateEnvelope struct {
	State json.RawMessage `json:"state"`
	MAC   string          `json:"mac"`
}

// TrainingReport summarizes a completed training run.
type TrainingReport struct {
	Accuracy  float64   `json:"accuracy"`
	Samples   int       `json:"samples"`
	Seed      int64     `json:"seed"`
	TrainedAt time.Time `json:"trained_at"`
}

// Result is one scored assessment. CreditScore always comes from the
// fixed-weight composite; RepaymentProbability is the classifier's
// supplementary estimate and never feeds the score.
type Result struct {
	CreditScore          int           `json:"credit_score"`
	RiskCategory         RiskTier      `json:"risk_category"`
	RepaymentProbability float64       `json:"repayment_probability"`
	Composite            float64       `json:"composite"`
	Features             FeatureVector `json:"features"`
}

// Engine owns the trained model snapshot and serves training and inference.
// Inference only reads the current snapshot, so any number of concurrent
// calls may run against it; retraining publishes a complete new snapshot in
// a single atomic store.
type Engine struct {
	state      atomic.Pointer[modelState]
	store      StateStore
	hmacSecret string
	log        *logrus.Logger
}

// NewEngine creates an engine persisting through store. The HMAC secret
// signs persisted snapshots.
func NewEngine(store StateStore, hmacSecret string, log *logrus.Logger) *Engine {
	return &Engine{store: store, hmacSecret: hmacSecret, log: log}
}

// Ready reports whether a trained snapshot is available.
func (e *Engine) Ready() bool {
	return e.state.Load() != nil
}

// holdoutRatio of the synthetic population is reserved for the accuracy
// estimate and never seen by the fit.
const holdoutRatio = 0.2

// Train generates a synthetic population, fits the scaler and classifier,
// persists the paired state as one unit and then publishes it. Nothing is
// persisted or published when any stage fails.
func (e *Engine) Train(n int, seed int64) (*TrainingReport, error) {
	samples, err := GeneratePopulation(n, seed)
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(samples))
	labels := make([]int, len(samples))
	for i, s := range samples {
		rows[i] = s.Features.Values()
		labels[i] = s.Label
	}

	// Samples are iid, so a positional split is as good as a shuffled one
	// and keeps retraining bit-for-bit reproducible.
	holdout := int(float64(len(rows)) * holdoutRatio)
	trainRows, testRows := rows[holdout:], rows[:holdout]
	trainLabels, testLabels := labels[holdout:], labels[:holdout]

	scaler, err := FitScaler(trainRows)
	if err != nil {
		return nil, err
	}
	if scaler.Degenerate() {
		return nil, errors.Wrap(ErrTrainingDegenerate, "a feature has zero variance across the population")
	}

	scaled := make([][]float64, len(trainRows))
	for i, row := range trainRows {
		scaled[i] = scaler.Transform(row)
	}

	clf := &LogisticRegression{}
	if err := clf.Fit(scaled, trainLabels); err != nil {
		return nil, err
	}

	accuracy := 1.0
	if len(testRows) > 0 {
		correct := 0
		for i, row := range testRows {
			if clf.Predict(scaler.Transform(row)) == testLabels[i] {
				correct++
			}
		}
		accuracy = float64(correct) / float64(len(testRows))
	}

	state := &modelState{
		Scaler:     scaler,
		Classifier: clf,
		Samples:    n,
		Seed:       seed,
		Accuracy:   accuracy,
		TrainedAt:  time.Now().UTC(),
	}

	if err := e.persist(state); err != nil {
		return nil, err
	}
	e.state.Store(state)

	e.log.WithFields(logrus.Fields{
		"samples":  n,
		"seed":     seed,
		"accuracy": accuracy,
	}).Info("model trained")

	return &TrainingReport{
		Accuracy:  accuracy,
		Samples:   n,
		Seed:      seed,
		TrainedAt: state.TrainedAt,
	}, nil
}

// Infer scores one applicant against the current snapshot. It fails with
// ErrUntrainedModel when no snapshot has been published.
func (e *Engine) Infer(p Profile) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	state := e.state.Load()
	if state == nil {
		return nil, errors.Wrap(ErrUntrainedModel, "inference requested before training")
	}

	features := Extract(p)
	composite := Composite(features)
	score := Score(composite)

	probability := state.Classifier.PredictProba(state.Scaler.Transform(features.Values()))

	return &Result{
		CreditScore:          score,
		RiskCategory:         Tier(score),
		RepaymentProbability: probability,
		Composite:            composite,
		Features:             features,
	}, nil
}

// Report returns the training report of the current snapshot, or
// ErrUntrainedModel when none exists.
func (e *Engine) Report() (*TrainingReport, error) {
	state := e.state.Load()
	if state == nil {
		return nil, ErrUntrainedModel
	}
	return &TrainingReport{
		Accuracy:  state.Accuracy,
		Samples:   state.Samples,
		Seed:      state.Seed,
		TrainedAt: state.TrainedAt,
	}, nil
}

// persist serializes and signs the snapshot, then hands it to the store in
// one call so partial state can never be observed.
func (e *Engine) persist(state *modelState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to serialize model state")
	}
	env := stateEnvelope{
		State: raw,
		MAC:   utils.Sign(raw, e.hmacSecret),
	}
	blob, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "failed to serialize state envelope")
	}
	if err := e.store.Save(blob); err != nil {
		return errors.Wrap(err, "failed to persist model state")
	}
	return nil
}

// LoadState restores the last persisted snapshot. found=false means no
// state was ever saved; the caller decides whether to train.
func (e *Engine) LoadState() (found bool, err error) {
	blob, found, err := e.store.Load()
	if err != nil {
		return false, errors.Wrap(err, "failed to load model state")
	}
	if !found {
		return false, nil
	}

	var env stateEnvelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return false, errors.Wrap(err, "failed to parse state envelope")
	}
	if !utils.VerifySignature(env.State, e.hmacSecret, env.MAC) {
		return false, errors.New("model state integrity check failed")
	}

	state := &modelState{}
	if err := json.Unmarshal(env.State, state); err != nil {
		return false, errors.Wrap(err, "failed to parse model state")
	}
	if state.Scaler == nil || state.Classifier == nil {
		return false, errors.New("persisted model state is incomplete")
	}

	e.state.Store(state)
	e.log.WithFields(logrus.Fields{
		"samples":    state.Samples,
		"trained_at": state.TrainedAt,
	}).Info("model state loaded")
	return true, nil
}
