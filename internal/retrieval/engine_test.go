package retrieval

import (
	"context"
	"testing"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/store"
)

func newTestIndex(t *testing.T, docs ...store.Document) *MemoryIndex {
	idx := NewMemoryIndex()
	for _, doc := range docs {
		if err := idx.Upsert(doc); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	return idx
}

func TestSearchSingleMatch(t *testing.T) {
	idx := newTestIndex(t, store.Document{
		ID:         "doc1",
		Content:    "Un classique du slasher",
		SourceType: "film",
		Embedding:  []float64{0.9, 0.4},
	})
	engine := NewEngine(idx)

	results, err := engine.Search(context.Background(), []float64{1, 0.5}, 5, 0.7, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "doc1" {
		t.Fatalf("unexpected result: %+v", results[0])
	}
	if results[0].Similarity < 0.7 || results[0].Similarity > 1 {
		t.Fatalf("similarity out of range: %f", results[0].Similarity)
	}
}

func TestSearchOrderingAndTies(t *testing.T) {
	// b and c score identically; the tie breaks by document ID.
	idx := newTestIndex(t,
		store.Document{ID: "c", Content: "c", SourceType: "film", Embedding: []float64{0, 1}},
		store.Document{ID: "a", Content: "a", SourceType: "film", Embedding: []float64{1, 0}},
		store.Document{ID: "b", Content: "b", SourceType: "film", Embedding: []float64{0, 1}},
	)
	engine := NewEngine(idx)

	results, err := engine.Search(context.Background(), []float64{0.3, 1}, 5, 0, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Fatalf("results not sorted by similarity: %+v", results)
		}
	}
	if results[0].ID != "b" || results[1].ID != "c" {
		t.Fatalf("tie not broken by ID: got %s then %s", results[0].ID, results[1].ID)
	}
}

func TestSearchThresholdCut(t *testing.T) {
	idx := newTestIndex(t,
		store.Document{ID: "near", Content: "n", SourceType: "film", Embedding: []float64{1, 0}},
		store.Document{ID: "far", Content: "f", SourceType: "film", Embedding: []float64{0, 1}},
	)
	engine := NewEngine(idx)

	results, err := engine.Search(context.Background(), []float64{1, 0}, 5, 0.7, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "near" {
		t.Fatalf("expected only the near doc, got %+v", results)
	}
}

func TestSearchTruncatesToK(t *testing.T) {
	idx := newTestIndex(t,
		store.Document{ID: "a", Content: "a", SourceType: "film", Embedding: []float64{1, 0}},
		store.Document{ID: "b", Content: "b", SourceType: "film", Embedding: []float64{0.9, 0.1}},
		store.Document{ID: "c", Content: "c", SourceType: "film", Embedding: []float64{0.8, 0.2}},
	)
	engine := NewEngine(idx)

	results, err := engine.Search(context.Background(), []float64{1, 0}, 2, 0, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchSourceTypeFilter(t *testing.T) {
	idx := newTestIndex(t,
		store.Document{ID: "a", Content: "a", SourceType: "film", Embedding: []float64{1, 0}},
		store.Document{ID: "b", Content: "b", SourceType: "review", Embedding: []float64{1, 0}},
	)
	engine := NewEngine(idx)

	results, err := engine.Search(context.Background(), []float64{1, 0}, 5, 0, "review")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "b" {
		t.Fatalf("expected only the review doc, got %+v", results)
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	engine := NewEngine(NewMemoryIndex())

	results, err := engine.Search(context.Background(), []float64{1, 0}, 5, 0.7, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestSearchInvalidK(t *testing.T) {
	engine := NewEngine(NewMemoryIndex())

	for _, k := range []int{0, -1} {
		_, err := engine.Search(context.Background(), []float64{1, 0}, k, 0.7, "")
		if domain.KindOf(err) != domain.KindInvalidArgument {
			t.Fatalf("k=%d: expected invalid_argument, got %v", k, err)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	idx := newTestIndex(t,
		store.Document{ID: "a", Content: "a", SourceType: "film", Embedding: []float64{1, 0.1}},
		store.Document{ID: "b", Content: "b", SourceType: "film", Embedding: []float64{0.9, 0.3}},
		store.Document{ID: "c", Content: "c", SourceType: "film", Embedding: []float64{0.8, 0.5}},
	)
	engine := NewEngine(idx)

	first, err := engine.Search(context.Background(), []float64{1, 0.2}, 3, 0, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.Search(context.Background(), []float64{1, 0.2}, 3, 0, "")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result count changed between runs")
		}
		for j := range again {
			if again[j].ID != first[j].ID || again[j].Similarity != first[j].Similarity {
				t.Fatalf("results changed between runs: %+v vs %+v", first, again)
			}
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if sim := cosineSimilarity([]float64{1, 0}, []float64{1, 0}); sim != 1 {
		t.Fatalf("identical vectors: expected 1, got %f", sim)
	}
	if sim := cosineSimilarity([]float64{1, 0}, []float64{0, 1}); sim != 0 {
		t.Fatalf("orthogonal vectors: expected 0, got %f", sim)
	}
	if sim := cosineSimilarity([]float64{1, 0}, []float64{-1, 0}); sim != 0 {
		t.Fatalf("opposed vectors: expected clamp to 0, got %f", sim)
	}
	if sim := cosineSimilarity([]float64{0, 0}, []float64{1, 0}); sim != 0 {
		t.Fatalf("zero vector: expected 0, got %f", sim)
	}
}
