package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQdrantSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/horrorbot_documents/points/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["limit"].(float64) != 5 {
			t.Fatalf("unexpected limit: %v", req["limit"])
		}
		if req["score_threshold"].(float64) != 0.7 {
			t.Fatalf("unexpected threshold: %v", req["score_threshold"])
		}
		if _, ok := req["filter"]; !ok {
			t.Fatalf("expected a source_type filter")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":[{"score":0.91,"payload":{"doc_id":"doc1","content":"Un slasher","source_type":"film","metadata":{"title":"Halloween"}}}]}`)
	}))
	defer server.Close()

	idx := NewQdrantIndex(QdrantConfig{URL: server.URL, Collection: "horrorbot_documents"})
	docs, err := idx.Search(context.Background(), []float64{0.1, 0.2}, 5, 0.7, "film")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 result, got %d", len(docs))
	}
	doc := docs[0]
	if doc.ID != "doc1" || doc.Similarity != 0.91 || doc.SourceType != "film" {
		t.Fatalf("unexpected doc: %+v", doc)
	}
	if doc.Metadata["title"] != "Halloween" {
		t.Fatalf("unexpected metadata: %+v", doc.Metadata)
	}
}

func TestQdrantSearchAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "qd-secret" {
			t.Fatalf("unexpected api-key header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":[]}`)
	}))
	defer server.Close()

	idx := NewQdrantIndex(QdrantConfig{URL: server.URL, APIKey: "qd-secret", Collection: "c"})
	if _, err := idx.Search(context.Background(), []float64{0.1}, 3, 0, ""); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
}

func TestQdrantSearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	idx := NewQdrantIndex(QdrantConfig{URL: server.URL, Collection: "c"})
	if _, err := idx.Search(context.Background(), []float64{0.1}, 3, 0, ""); err == nil {
		t.Fatalf("expected error")
	}
}
