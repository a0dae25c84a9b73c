// ABOUTME: Immutable knowledge base store loaded once from a JSON artifact
// ABOUTME: Validates dimensions at load time and serves read-only lookups
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/2jang/Pawsonality/internal/models"
)

// ArtifactVersion is the artifact schema version written by the builder
const ArtifactVersion = 1

// Artifact is the on-disk knowledge base format
type Artifact struct {
	Version   int                     `json:"version"`
	Embedder  string                  `json:"embedder"`
	Dimension int                     `json:"dimension"`
	CreatedAt time.Time               `json:"created_at"`
	Chunks    []models.KnowledgeChunk `json:"chunks"`
}

// Store holds knowledge chunks in insertion order. It is never mutated after
// Load, so concurrent readers need no locking.
type Store struct {
	embedder  string
	dimension int
	chunks    []models.KnowledgeChunk
	byID      map[string]int
}

// Load reads and validates an artifact file
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrStoreLoad, path, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", models.ErrStoreLoad, path, err)
	}

	return NewStore(a)
}

// NewStore validates an in-memory artifact and builds a Store
func NewStore(a Artifact) (*Store, error) {
	if len(a.Chunks) == 0 {
		return nil, fmt.Errorf("%w: artifact has no chunks", models.ErrStoreLoad)
	}

	dim := a.Dimension
	if dim == 0 {
		dim = len(a.Chunks[0].Embedding)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive", models.ErrStoreLoad)
	}

	s := &Store{
		embedder:  a.Embedder,
		dimension: dim,
		chunks:    make([]models.KnowledgeChunk, 0, len(a.Chunks)),
		byID:      make(map[string]int, len(a.Chunks)),
	}

	for i, c := range a.Chunks {
		if err := c.Validate(dim); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", models.ErrStoreLoad, i, err)
		}
		if _, dup := s.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate chunk id %s", models.ErrStoreLoad, c.ID)
		}
		c.TypeCode = strings.ToUpper(c.TypeCode)
		s.byID[c.ID] = len(s.chunks)
		s.chunks = append(s.chunks, c)
	}

	return s, nil
}

// Get returns a chunk by id
func (s *Store) Get(id string) (models.KnowledgeChunk, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.KnowledgeChunk{}, false
	}
	return s.chunks[i], true
}

// All returns every chunk in insertion order. The returned slice is a copy;
// embeddings are shared and must not be modified.
func (s *Store) All() []models.KnowledgeChunk {
	return append([]models.KnowledgeChunk(nil), s.chunks...)
}

// ByType returns chunks tagged with a type code, in insertion order
func (s *Store) ByType(code string) []models.KnowledgeChunk {
	code = strings.ToUpper(code)
	var out []models.KnowledgeChunk
	for _, c := range s.chunks {
		if c.TypeCode == code {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of chunks
func (s *Store) Len() int { return len(s.chunks) }

// Dimension returns the embedding dimension shared by every chunk
func (s *Store) Dimension() int { return s.dimension }

// Embedder returns the name of the embedder that produced the vectors
func (s *Store) Embedder() string { return s.embedder }

// Stats summarizes the store contents
type Stats struct {
	Chunks     int            `json:"chunks"`
	Dimension  int            `json:"dimension"`
	Embedder   string         `json:"embedder"`
	ByType     map[string]int `json:"by_type"`
	ByCategory map[string]int `json:"by_category"`
	Untyped    int            `json:"untyped"`
}

// Stats counts chunks per type and category
func (s *Store) Stats() Stats {
	st := Stats{
		Chunks:     len(s.chunks),
		Dimension:  s.dimension,
		Embedder:   s.embedder,
		ByType:     make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, c := range s.chunks {
		if c.TypeCode == "" {
			st.Untyped++
		} else {
			st.ByType[c.TypeCode]++
		}
		if c.Category != "" {
			st.ByCategory[c.Category]++
		}
	}
	return st
}
