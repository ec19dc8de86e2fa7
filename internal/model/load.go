package model

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Regressor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

type Options struct {
	Kind    string // file or remote
	Path    string
	URL     string
	Timeout time.Duration
}

// Load opens the configured regressor. Any failure here should stop startup.
func Load(ctx context.Context, opts Options) (Regressor, error) {
	switch strings.ToLower(opts.Kind) {
	case "", "file":
		m, err := LoadLinearModel(opts.Path)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "remote":
		r := NewRemoteRegressor(opts.URL, opts.Timeout)
		if err := r.Probe(ctx); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("model: unsupported kind %q", opts.Kind)
	}
}
