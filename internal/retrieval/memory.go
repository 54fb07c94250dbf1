package retrieval

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/store"
)

// MemoryIndex is an in-memory vector index using brute-force cosine
// similarity. Exact, suitable for small corpora and tests. The corpus is
// read-mostly: writes happen at load time and through Upsert.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs []store.Document
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex { return &MemoryIndex{} }

// LoadMemoryIndex builds an index from the persisted corpus.
func LoadMemoryIndex(ctx context.Context, st store.Store) (*MemoryIndex, error) {
	docs, err := st.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	idx := NewMemoryIndex()
	for i := range docs {
		if err := idx.Upsert(docs[i]); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Upsert adds or replaces a document.
func (m *MemoryIndex) Upsert(doc store.Document) error {
	if len(doc.Embedding) == 0 {
		return errors.New("document has no embedding")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID == doc.ID {
			m.docs[i] = doc
			return nil
		}
	}
	m.docs = append(m.docs, doc)
	return nil
}

// Search scores every document against the query vector.
func (m *MemoryIndex) Search(ctx context.Context, vector []float64, k int, threshold float64, sourceType string) ([]domain.RetrievedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]domain.RetrievedDocument, 0, k)
	for _, doc := range m.docs {
		if sourceType != "" && doc.SourceType != sourceType {
			continue
		}
		sim := cosineSimilarity(vector, doc.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, domain.RetrievedDocument{
			ID:         doc.ID,
			Content:    doc.Content,
			SourceType: doc.SourceType,
			Similarity: sim,
			Metadata:   doc.Metadata,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// cosineSimilarity returns 1 - cosineDistance, clamped to [0,1]. Opposed
// vectors score 0 rather than a negative value.
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
