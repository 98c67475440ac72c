package ml

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	ErrUnsupportedModel = errors.New("unsupported model type")
	ErrFeatureOrder     = errors.New("feature order mismatch")
	ErrModelOutput      = errors.New("invalid model output")
)

// Classifier is a loaded, read-only model. Implementations must be safe for
// concurrent use.
type Classifier interface {
	Predict(ctx context.Context, features FeatureVector) (class int, probabilities []float64, err error)
	Close() error
}

type PredictionResult struct {
	Class         int       `json:"class"`
	Label         string    `json:"label"`
	Probabilities []float64 `json:"probabilities"`
}

// Good reports whether the prediction is the best air-quality class.
func (r PredictionResult) Good() bool {
	return r.Class == ClassGood
}

// Outcome is either a successful prediction or the reason it failed.
type Outcome struct {
	Result *PredictionResult
	Err    error
}

func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// Predictor adapts a Classifier to the form controller. It never lets a
// classifier error or panic escape: both become a failed Outcome.
type Predictor struct {
	model Classifier
}

func NewPredictor(model Classifier) *Predictor {
	return &Predictor{model: model}
}

func (p *Predictor) Predict(ctx context.Context, features FeatureVector) (outcome Outcome) {
	if p == nil || p.model == nil {
		return Outcome{Err: errors.New("model not loaded")}
	}
	if err := ctx.Err(); err != nil {
		return Outcome{Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()

	class, probabilities, err := p.model.Predict(ctx, features)
	if err != nil {
		return Outcome{Err: err}
	}
	if len(probabilities) == 0 {
		return Outcome{Err: fmt.Errorf("%w: empty probability vector", ErrModelOutput)}
	}

	return Outcome{Result: &PredictionResult{
		Class:         class,
		Label:         LabelFor(class),
		Probabilities: probabilities,
	}}
}

// PanicError wraps a value recovered from a classifier panic.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}
