// Package retry wraps an http.Client with bounded retries for transient failures.
package retry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultBackoff    = 500 * time.Millisecond
)

// Doer sends requests, retrying network errors, 429 and 5xx responses with
// exponential backoff. A Retry-After header overrides the computed delay.
type Doer struct {
	Client      *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
	Name        string // prefix for log and error messages
}

// New returns a Doer around client. Non-positive values fall back to the defaults.
func New(name string, client *http.Client, maxRetries int, baseBackoff time.Duration) *Doer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Doer{
		Client:      client,
		MaxRetries:  maxRetries,
		BaseBackoff: baseBackoff,
		Name:        name,
	}
}

func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	maxRetries := d.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	baseBackoff := d.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = DefaultBackoff
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	if req.Body != nil && req.GetBody == nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: read request body: %w", d.Name, err)
		}
		_ = req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bodyBytes)), nil
		}
	}

	ctx := req.Context()
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", d.Name, err)
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("%s: reset request body: %w", d.Name, err)
			}
			req.Body = body
		}

		resp, err := client.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		attemptNum := attempt + 1
		if err != nil {
			log.Printf("WARN %s: retry attempt %d/%d after error: %v", d.Name, attemptNum, maxRetries, err)
		} else if resp != nil {
			log.Printf("WARN %s: retry attempt %d/%d after status %d", d.Name, attemptNum, maxRetries, resp.StatusCode)
			_ = resp.Body.Close()
		}

		if attempt == maxRetries-1 {
			if err != nil {
				return nil, fmt.Errorf("%s: request failed after %d attempts: %w", d.Name, maxRetries, err)
			}
			if resp != nil {
				return nil, fmt.Errorf("%s: request failed after %d attempts: status %d", d.Name, maxRetries, resp.StatusCode)
			}
			return nil, fmt.Errorf("%s: request failed after %d attempts", d.Name, maxRetries)
		}

		backoff := baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}

		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", d.Name, err)
		}
	}

	return nil, fmt.Errorf("%s: request failed after %d attempts", d.Name, maxRetries)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}

	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		until := time.Until(when)
		if until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
