package valuation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/metrics"
)

// Regressor is the trained price model: one feature row in, one amount out.
// It cannot verify that the row is in the order it was trained on.
type Regressor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// widthReporter is implemented by regressors whose artifact declares its input width.
type widthReporter interface {
	NumFeatures() int
}

// PredictionError wraps any failure of the underlying model call. Its
// message is the model's own message so it can be shown to the user as is.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string { return e.Err.Error() }
func (e *PredictionError) Unwrap() error { return e.Err }

type Valuation struct {
	Features FeatureVector `json:"features"`
	Amount   float64       `json:"amount"`
	Text     string        `json:"text"`
}

type Service struct {
	model Regressor
}

// NewService rejects a model whose declared input width differs from FeatureCount.
func NewService(model Regressor) (*Service, error) {
	if model == nil {
		return nil, errors.New("valuation: regressor is nil")
	}
	if w, ok := model.(widthReporter); ok {
		if n := w.NumFeatures(); n > 0 && n != FeatureCount {
			return nil, fmt.Errorf("valuation: model expects %d features, form produces %d", n, FeatureCount)
		}
	}
	return &Service{model: model}, nil
}

// Predict runs the model once. No retries: a failing input fails the same way again.
func (s *Service) Predict(ctx context.Context, v FeatureVector) (amount float64, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &PredictionError{Err: fmt.Errorf("%v", r)}
		}
		metrics.ValuationDuration.Observe(time.Since(start).Seconds())
	}()

	amount, err = s.model.Predict(ctx, v.Values())
	if err != nil {
		return 0, &PredictionError{Err: err}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &PredictionError{Err: fmt.Errorf("model returned a non-finite value: %v", amount)}
	}
	return amount, nil
}

// Estimate encodes the form, predicts, and renders the user-facing sentence.
func (s *Service) Estimate(ctx context.Context, in CarInput) (Valuation, error) {
	v, err := BuildFeatures(in)
	if err != nil {
		metrics.ValuationsTotal.WithLabelValues("invalid").Inc()
		return Valuation{}, err
	}
	amount, err := s.Predict(ctx, v)
	if err != nil {
		metrics.ValuationsTotal.WithLabelValues("failed").Inc()
		return Valuation{}, err
	}
	metrics.ValuationsTotal.WithLabelValues("ok").Inc()
	return Valuation{
		Features: v,
		Amount:   amount,
		Text:     ResultText(amount),
	}, nil
}

func ResultText(amount float64) string {
	return "The predicted resale value of the car is: " + common.FormatINR(amount)
}

// ErrorText is what the form shows when a valuation fails.
func ErrorText(err error) string {
	return "Error: " + err.Error()
}
