// Package prodsource fetches per-team throughput measurements from the
// external productivity service.
package prodsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teamlens/teamlens/internal/metrics"
)

const defaultTimeout = 20 * time.Second

// Client calls the productivity service's throughput endpoint.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a productivity source client. apiKey may be empty when
// the service is unauthenticated.
func NewClient(url, apiKey string) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// envelope is the service's response shape.
type envelope struct {
	Success bool                       `json:"success"`
	Metrics []metrics.ThroughputRecord `json:"metrics"`
	Error   string                     `json:"error,omitempty"`
}

// FetchProductivityMetrics retrieves the current per-team throughput
// records. Any failure is returned as an error; the caller decides how the
// pillar degrades.
func (c *Client) FetchProductivityMetrics(ctx context.Context) ([]metrics.ThroughputRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("productivity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read productivity response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("productivity service returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse productivity response: %w", err)
	}
	if !env.Success {
		if env.Error == "" {
			env.Error = "unspecified error"
		}
		return nil, fmt.Errorf("productivity service error: %s", env.Error)
	}
	return env.Metrics, nil
}
