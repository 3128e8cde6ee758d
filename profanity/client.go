// Package profanity is an HTTP client for the optional statistical
// profanity-classification service.
package profanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client handles communication with the profanity classifier service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// PredictRequest represents the request to the profanity service
type PredictRequest struct {
	Text string `json:"text"`
}

// PredictResponse represents the response from the profanity service
type PredictResponse struct {
	Profane bool   `json:"profane"`
	Status  string `json:"status,omitempty"`
}

// NewClient creates a new profanity classifier client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict asks the service whether the text is profane.
func (c *Client) Predict(ctx context.Context, text string) (bool, error) {
	requestBody, err := json.Marshal(PredictRequest{Text: text})
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewBuffer(requestBody))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request to profanity service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("profanity service returned status %d", resp.StatusCode)
	}

	var response PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Profane, nil
}
