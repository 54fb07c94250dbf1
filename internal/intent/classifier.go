// Package intent classifies user messages and routes them to a response
// pipeline.
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Classification is the result of the external classification capability.
type Classification struct {
	Label      string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier is the external classification capability: text in,
// label + confidence out.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// HTTPClassifier calls a remote classifier service.
type HTTPClassifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClassifier creates a classifier client.
func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ensure HTTPClassifier implements Classifier.
var _ Classifier = (*HTTPClassifier)(nil)

// Classify posts the text and decodes the label/confidence pair.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Classification{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Classification{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Classification{}, fmt.Errorf("classifier error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result Classification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Classification{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result, nil
}
