// Package retrieval implements nearest-neighbor search over the document
// corpus.
package retrieval

import (
	"context"
	"sort"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// Index is a vector search backend. Implementations may be approximate: the
// Engine re-checks ordering and threshold on whatever candidates come back,
// but exhaustive top-k recall is not guaranteed by every backend.
type Index interface {
	Search(ctx context.Context, vector []float64, k int, threshold float64, sourceType string) ([]domain.RetrievedDocument, error)
}

// Engine performs similarity search with the contract guarantees: results in
// non-increasing similarity order (ties broken by document ID ascending),
// every result at or above the threshold, at most k results.
type Engine struct {
	index Index
}

// NewEngine creates a retrieval engine over the given index backend.
func NewEngine(index Index) *Engine {
	return &Engine{index: index}
}

// Search runs a similarity query. k <= 0 is a caller contract violation. An
// empty corpus or no candidate above the threshold yields an empty result,
// not an error.
func (e *Engine) Search(ctx context.Context, vector []float64, k int, threshold float64, sourceType string) ([]domain.RetrievedDocument, error) {
	if k <= 0 {
		return nil, domain.E(domain.KindInvalidArgument, "k must be positive, got %d", k)
	}

	candidates, err := e.index.Search(ctx, vector, k, threshold, sourceType)
	if err != nil {
		return nil, err
	}

	// Backends already filter, but the contract is enforced here so an
	// approximate index cannot leak below-threshold or misordered results.
	results := candidates[:0]
	for _, c := range candidates {
		if c.Similarity >= threshold && (sourceType == "" || c.SourceType == sourceType) {
			results = append(results, c)
		}
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
