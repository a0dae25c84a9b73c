// ABOUTME: Tests for the offline knowledge base builder
// ABOUTME: Builds artifacts with the hash embedder and flaky fakes, then loads them back
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/2jang/Pawsonality/internal/embedding"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/personality"
)

// flakyEmbedder fails the first failures calls for every text
type flakyEmbedder struct {
	mu       sync.Mutex
	failures int
	calls    map[string]int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[text]++
	if f.calls[text] <= f.failures {
		return nil, fmt.Errorf("%w: temporary", models.ErrEmbeddingUnavailable)
	}
	return []float64{1, 0}, nil
}

func (f *flakyEmbedder) Dimension() int { return 2 }
func (f *flakyEmbedder) Name() string   { return "flaky" }

func testDocs() []Document {
	return []Document{
		{ID: "walks", Title: "Walks", Category: "exercise", Content: "Walk daily.\n\nVary the route."},
		{ID: "wtil-care", Title: "WTIL care", TypeCode: "WTIL", Category: "care", Content: "Give structure."},
		{ID: "play", Title: "Play", Content: "Rotate toys weekly."},
	}
}

func TestBuilder_BuildAndLoad(t *testing.T) {
	h, _ := embedding.NewHashEmbedder(64)
	b := NewBuilder(h, nil, BuilderConfig{Concurrency: 4})

	art, err := b.Build(context.Background(), testDocs())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if art.Embedder != "hash-64" || art.Dimension != 64 || art.Version != ArtifactVersion {
		t.Errorf("artifact header = %s/%d/%d", art.Embedder, art.Dimension, art.Version)
	}

	wantIDs := []string{"walks-1", "walks-2", "wtil-care", "play"}
	if len(art.Chunks) != len(wantIDs) {
		t.Fatalf("len(Chunks) = %d, want %d", len(art.Chunks), len(wantIDs))
	}
	for i, c := range art.Chunks {
		if c.ID != wantIDs[i] {
			t.Errorf("Chunks[%d].ID = %s, want %s", i, c.ID, wantIDs[i])
		}
		if len(c.Embedding) != 64 {
			t.Errorf("Chunks[%d] has %d dims", i, len(c.Embedding))
		}
	}

	path := filepath.Join(t.TempDir(), "nested", "kb.json")
	if err := WriteArtifact(path, art); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Len() != 4 || len(s.ByType("WTIL")) != 1 {
		t.Errorf("loaded store len %d, WTIL %d", s.Len(), len(s.ByType("WTIL")))
	}
}

func TestBuilder_RetriesTransientFailures(t *testing.T) {
	f := &flakyEmbedder{failures: 2}
	b := NewBuilder(f, nil, BuilderConfig{Concurrency: 2, MaxRetries: 3, RetryDelay: time.Millisecond})

	art, err := b.Build(context.Background(), testDocs())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, c := range art.Chunks {
		if len(c.Embedding) != 2 {
			t.Errorf("chunk %s not embedded", c.ID)
		}
	}
}

func TestBuilder_GivesUp(t *testing.T) {
	f := &flakyEmbedder{failures: 10}
	b := NewBuilder(f, nil, BuilderConfig{Concurrency: 2, MaxRetries: 1, RetryDelay: time.Millisecond})

	_, err := b.Build(context.Background(), testDocs())
	if !errors.Is(err, models.ErrEmbeddingUnavailable) {
		t.Errorf("Build() error = %v, want ErrEmbeddingUnavailable", err)
	}
}

func TestBuilder_InputErrors(t *testing.T) {
	h, _ := embedding.NewHashEmbedder(8)
	b := NewBuilder(h, nil, BuilderConfig{})

	if _, err := b.Build(context.Background(), nil); err == nil {
		t.Error("Build(nil) should fail")
	}

	dup := []Document{
		{ID: "same", Title: "One", Content: "a"},
		{ID: "same", Title: "Two", Content: "b"},
	}
	if _, err := b.Build(context.Background(), dup); err == nil {
		t.Error("Build() with duplicate ids should fail")
	}
}

func TestBuilder_FullCatalogCorpus(t *testing.T) {
	c, err := personality.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	guides, err := LoadCorpus(filepath.Join("..", "..", "data", "knowledge"))
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	h, _ := embedding.NewHashEmbedder(embedding.DefaultHashDimension)
	b := NewBuilder(h, nil, BuilderConfig{Concurrency: 8})
	art, err := b.Build(context.Background(), append(TypeDocuments(c), guides...))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := NewStore(art); err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	for _, pt := range c.Types() {
		found := false
		for _, ch := range art.Chunks {
			if ch.TypeCode == pt.Code {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("type %s has no chunks", pt.Code)
		}
	}
}
