// Package tfserving provides an adapter for models hosted by TensorFlow Serving.
// It checks model availability over the REST status endpoint and runs
// predictions by posting encoded instances to the predict endpoint.
package tfserving

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/edh5623/Songtiment-Analysis/internal/retry"
)

const defaultBaseURL = "http://localhost:8501"

var ErrModelUnavailable = errors.New("tfserving: model unavailable")

type Client struct {
	baseURL string
	doer    *retry.Doer
}

type predictRequest struct {
	Instances [][]int `json:"instances"`
}

type predictResponse struct {
	Predictions []json.RawMessage `json:"predictions"`
	Error       string            `json:"error,omitempty"`
}

type statusResponse struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
	Error string `json:"error,omitempty"`
}

// NewClient returns a client for the server at baseURL. A nil doer gets a
// plain retrying client with a 30 second timeout.
func NewClient(baseURL string, doer *retry.Doer) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if doer == nil {
		doer = retry.New("tfserving", &http.Client{Timeout: 30 * time.Second}, 0, 0)
	}
	return &Client{
		baseURL: baseURL,
		doer:    doer,
	}
}

// Status returns nil when at least one version of the model is AVAILABLE.
func (c *Client) Status(ctx context.Context, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models/"+model, nil)
	if err != nil {
		return fmt.Errorf("tfserving: build status request: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("tfserving: status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s not found", ErrModelUnavailable, model)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tfserving: status %s: unexpected status %d", model, resp.StatusCode)
	}

	var parsed statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("tfserving: decode status: %w", err)
	}
	if parsed.Error != "" {
		return fmt.Errorf("tfserving: %s", parsed.Error)
	}

	for _, v := range parsed.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("%w: %s has no available version", ErrModelUnavailable, model)
}

// Predict runs one instance through model and returns its scalar output.
func (c *Client) Predict(ctx context.Context, model string, instance []int) (float64, error) {
	body, err := json.Marshal(predictRequest{Instances: [][]int{instance}})
	if err != nil {
		return 0, fmt.Errorf("tfserving: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("tfserving: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, fmt.Errorf("tfserving: request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed predictResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && parsed.Error != "" {
			return 0, fmt.Errorf("tfserving: %s: status %d: %s", model, resp.StatusCode, parsed.Error)
		}
		return 0, fmt.Errorf("tfserving: %s: unexpected status %d", model, resp.StatusCode)
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("tfserving: decode response: %w", decodeErr)
	}
	if parsed.Error != "" {
		return 0, fmt.Errorf("tfserving: %s", parsed.Error)
	}
	if len(parsed.Predictions) == 0 {
		return 0, fmt.Errorf("tfserving: %s: empty predictions", model)
	}

	return scalar(parsed.Predictions[0])
}

// scalar accepts both a bare number and a one-element output vector.
func scalar(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}

	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return 0, fmt.Errorf("tfserving: decode prediction %s: %w", string(raw), err)
	}
	if len(vec) == 0 {
		return 0, fmt.Errorf("tfserving: empty prediction vector")
	}
	return vec[0], nil
}
