package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// QdrantIndex is a minimal REST client to a Qdrant collection configured
// with cosine distance. Qdrant's HNSW index is approximate: recall is traded
// for query latency, so exact top-k is not guaranteed.
type QdrantIndex struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

// QdrantConfig configures the Qdrant backend.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewQdrantIndex creates a Qdrant-backed index.
func NewQdrantIndex(cfg QdrantConfig) *QdrantIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantIndex{
		url:        strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Search queries the collection. The similarity threshold and source-type
// filter are pushed down to Qdrant.
func (q *QdrantIndex) Search(ctx context.Context, vector []float64, k int, threshold float64, sourceType string) ([]domain.RetrievedDocument, error) {
	req := map[string]any{
		"vector":          vector,
		"limit":           k,
		"score_threshold": threshold,
		"with_payload":    true,
	}
	if sourceType != "" {
		req["filter"] = map[string]any{
			"must": []map[string]any{
				{"key": "source_type", "match": map[string]any{"value": sourceType}},
			},
		}
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection)
	if err := q.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedDocument, 0, len(resp.Result))
	for _, r := range resp.Result {
		doc := domain.RetrievedDocument{Similarity: r.Score}
		if v, ok := r.Payload["doc_id"].(string); ok {
			doc.ID = v
		}
		if v, ok := r.Payload["content"].(string); ok {
			doc.Content = v
		}
		if v, ok := r.Payload["source_type"].(string); ok {
			doc.SourceType = v
		}
		if v, ok := r.Payload["metadata"].(map[string]any); ok {
			doc.Metadata = v
		}
		results = append(results, doc)
	}
	return results, nil
}

func (q *QdrantIndex) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
