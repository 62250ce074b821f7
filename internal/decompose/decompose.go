// Package decompose talks to the external decomposition service that breaks
// a work item into right-sized subtasks.
package decompose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julianstephens/weekplan/internal/constants"
)

// Constraints bound what the service is allowed to propose.
type Constraints struct {
	MinSubtaskMinutes int `json:"minSubtaskMinutes"`
	MaxSubtaskMinutes int `json:"maxSubtaskMinutes"`
	MaxSubtasks       int `json:"maxSubtasks"`
}

// DefaultConstraints returns the standard decomposition bounds.
func DefaultConstraints() Constraints {
	return Constraints{
		MinSubtaskMinutes: constants.MinSubtaskMinutes,
		MaxSubtaskMinutes: constants.MaxSubtaskMinutes,
		MaxSubtasks:       constants.MaxSubtasksPerItem,
	}
}

// Proposal is one suggested subtask. EstimatedMinutes arrives untrusted and
// must be snapped to an allowed bucket before use.
type Proposal struct {
	Title            string `json:"title"`
	DefinitionOfDone string `json:"definitionOfDone"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Rationale        string `json:"rationale"`
}

type request struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Constraints Constraints `json:"constraints"`
}

type response struct {
	Subtasks []Proposal `json:"subtasks"`
	Error    string     `json:"error,omitempty"`
}

// Client calls the decomposition endpoint over HTTP.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns a client with a sane request timeout.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Decompose submits a work item and returns the proposed subtasks with each
// estimate snapped to the nearest allowed bucket.
func (c *Client) Decompose(ctx context.Context, title, description string, constraints Constraints) ([]Proposal, error) {
	body, err := json.Marshal(request{Title: title, Description: description, Constraints: constraints})
	if err != nil {
		return nil, fmt.Errorf("unable to encode decompose request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/decompose", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to build decompose request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("decompose request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read decompose response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse decompose response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return nil, fmt.Errorf("decompose service: %s", parsed.Error)
		}
		return nil, fmt.Errorf("decompose service returned status %d", resp.StatusCode)
	}

	if len(parsed.Subtasks) > constraints.MaxSubtasks && constraints.MaxSubtasks > 0 {
		parsed.Subtasks = parsed.Subtasks[:constraints.MaxSubtasks]
	}
	for i := range parsed.Subtasks {
		parsed.Subtasks[i].EstimatedMinutes = SnapEstimate(parsed.Subtasks[i].EstimatedMinutes)
	}
	return parsed.Subtasks, nil
}

// SnapEstimate maps an arbitrary minute value onto the nearest allowed
// estimate bucket. Midpoints snap upward.
func SnapEstimate(minutes int) int {
	buckets := constants.EstimateBuckets
	best := buckets[0]
	for _, b := range buckets[1:] {
		if abs(minutes-b) <= abs(minutes-best) {
			best = b
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
