// Package labeler is an HTTP client for the external image-labeling
// capability. The pipeline treats any failure here as an empty label.
package labeler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
)

// Client handles communication with the image labeler service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClassifyRequest represents the request to the image labeler service
type ClassifyRequest struct {
	Image string `json:"image"`
}

// ClassifyResponse represents the response from the image labeler service
type ClassifyResponse struct {
	Label  string `json:"label"`
	Status string `json:"status,omitempty"`
}

// NewClient creates a new image labeler client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify sends image bytes to the labeler and returns the label string.
func (c *Client) Classify(ctx context.Context, imageData []byte) (string, error) {
	request := ClassifyRequest{
		Image: base64.StdEncoding.EncodeToString(imageData),
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Infof("Sending image to labeler service, image size: %d bytes", len(imageData))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to labeler service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("labeler service returned status %d", resp.StatusCode)
	}

	var response ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Label, nil
}
