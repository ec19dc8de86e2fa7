package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteRegressor scores rows on a model server that keeps the original
// artifact in memory.
//
//	POST {BaseURL}/predict  {"instances": [[...]]} -> {"predictions": [y]}
//	GET  {BaseURL}/health   -> 200 {"n_features": 15}
type RemoteRegressor struct {
	BaseURL string
	Client  *http.Client

	nFeatures int
}

type predictReq struct {
	Instances [][]float64 `json:"instances"`
}

type predictResp struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

type healthResp struct {
	NFeatures int `json:"n_features"`
}

func NewRemoteRegressor(baseURL string, timeout time.Duration) *RemoteRegressor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteRegressor{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Probe checks the server is up and records the input width it reports.
func (r *RemoteRegressor) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server health: status %d", resp.StatusCode)
	}
	var h healthResp
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("model server health: %w", err)
	}
	r.nFeatures = h.NFeatures
	return nil
}

func (r *RemoteRegressor) NumFeatures() int { return r.nFeatures }

func (r *RemoteRegressor) Predict(ctx context.Context, features []float64) (float64, error) {
	b, err := json.Marshal(predictReq{Instances: [][]float64{features}})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/predict", bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var decoded predictResp
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		if json.Unmarshal(body, &decoded) == nil && decoded.Error != "" {
			return 0, errors.New(decoded.Error)
		}
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return 0, fmt.Errorf("model server: %s", msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, err
	}
	if decoded.Error != "" {
		return 0, errors.New(decoded.Error)
	}
	if len(decoded.Predictions) == 0 {
		return 0, errors.New("model server: empty predictions")
	}
	return decoded.Predictions[0], nil
}
