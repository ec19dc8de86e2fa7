// Package model loads the trained price regressor used by the valuation form.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LinearModel is a fitted linear regression exported from the training
// notebook: price = intercept + sum(coefficients[i] * x[i]).
type LinearModel struct {
	FeatureCount int       `json:"feature_count" yaml:"feature_count"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
}

// LoadLinearModel reads a .json, .yaml or .yml artifact.
func LoadLinearModel(path string) (*LinearModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: read artifact: %w", err)
	}

	var m LinearModel
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &m)
	default:
		return nil, fmt.Errorf("model: unsupported artifact format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("model: decode artifact %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("model: artifact %s: %w", path, err)
	}
	return &m, nil
}

func (m *LinearModel) validate() error {
	if len(m.Coefficients) == 0 {
		return errors.New("no coefficients")
	}
	if m.FeatureCount == 0 {
		m.FeatureCount = len(m.Coefficients)
	}
	if m.FeatureCount != len(m.Coefficients) {
		return fmt.Errorf("feature_count=%d but %d coefficients", m.FeatureCount, len(m.Coefficients))
	}
	return nil
}

func (m *LinearModel) NumFeatures() int { return m.FeatureCount }

func (m *LinearModel) Predict(ctx context.Context, features []float64) (float64, error) {
	_ = ctx
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("X has %d features, but model is expecting %d features as input", len(features), len(m.Coefficients))
	}
	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}
