// ABOUTME: Retriever ranks knowledge chunks against a query vector
// ABOUTME: Linear cosine scan with optional type filter and stable tie ordering
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

// Retriever returns at most k chunks ranked by similarity to query.
// An empty typeFilter searches the whole corpus.
type Retriever interface {
	Retrieve(ctx context.Context, query []float64, k int, typeFilter string) ([]models.RetrievalResult, error)
}

// Corpus is the read-only chunk source a LinearRetriever scans
type Corpus interface {
	All() []models.KnowledgeChunk
	Dimension() int
}

// LinearRetriever scores every candidate chunk. The corpus is small enough
// that an index would not pay for itself.
type LinearRetriever struct {
	chunks []models.KnowledgeChunk
	dim    int
}

// NewLinearRetriever snapshots the corpus chunks in insertion order
func NewLinearRetriever(corpus Corpus) *LinearRetriever {
	return &LinearRetriever{
		chunks: corpus.All(),
		dim:    corpus.Dimension(),
	}
}

// Retrieve implements Retriever
func (r *LinearRetriever) Retrieve(ctx context.Context, query []float64, k int, typeFilter string) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidK, k)
	}
	if len(query) != r.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, corpus has %d", models.ErrDimensionMismatch, len(query), r.dim)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter := strings.ToUpper(strings.TrimSpace(typeFilter))
	results := make([]models.RetrievalResult, 0, len(r.chunks))
	for _, c := range r.chunks {
		if filter != "" && c.TypeCode != filter {
			continue
		}
		results = append(results, models.RetrievalResult{
			Chunk: c,
			Score: CosineSimilarity(query, c.Embedding),
		})
	}

	// SliceStable keeps insertion order for equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is zero or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
