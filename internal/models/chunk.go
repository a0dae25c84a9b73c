// ABOUTME: KnowledgeChunk is a retrievable text span with its embedding
// ABOUTME: RetrievalResult pairs a chunk with its similarity score and rank
package models

import "fmt"

// KnowledgeChunk is an immutable knowledge base entry
type KnowledgeChunk struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	TypeCode  string    `json:"type_code,omitempty"`
	Category  string    `json:"category,omitempty"`
	Source    string    `json:"source,omitempty"`
	Embedding []float64 `json:"embedding"`
}

// Validate checks the chunk against the expected embedding dimension
func (c KnowledgeChunk) Validate(dim int) error {
	if c.ID == "" {
		return fmt.Errorf("chunk id cannot be empty")
	}
	if c.Text == "" {
		return fmt.Errorf("chunk %s: text cannot be empty", c.ID)
	}
	if len(c.Embedding) != dim {
		return fmt.Errorf("chunk %s: %w: expected %d, got %d", c.ID, ErrDimensionMismatch, dim, len(c.Embedding))
	}
	return nil
}

// RetrievalResult is a ranked chunk. Rank is 1-based.
type RetrievalResult struct {
	Chunk KnowledgeChunk `json:"chunk"`
	Score float64        `json:"score"`
	Rank  int            `json:"rank"`
}
