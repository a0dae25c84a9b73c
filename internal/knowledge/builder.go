// ABOUTME: Offline knowledge base builder: chunks documents, embeds them and writes the artifact
// ABOUTME: Embeds concurrently with a bounded errgroup and retries remote failures with backoff
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/2jang/Pawsonality/internal/embedding"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/util"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// BuilderConfig tunes the embedding pass
type BuilderConfig struct {
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
}

// Builder produces knowledge base artifacts
type Builder struct {
	embedder embedding.Embedder
	logger   *log.Logger
	cfg      BuilderConfig
}

// NewBuilder creates a builder. A nil logger discards output.
func NewBuilder(e embedding.Embedder, logger *log.Logger, cfg BuilderConfig) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Builder{embedder: e, logger: logger, cfg: cfg}
}

// Build chunks and embeds docs. Chunk order follows document order regardless
// of concurrency.
func (b *Builder) Build(ctx context.Context, docs []Document) (Artifact, error) {
	var chunks []models.KnowledgeChunk
	seen := make(map[string]string)
	for _, doc := range docs {
		for _, c := range Chunk(doc) {
			if prev, dup := seen[c.ID]; dup {
				return Artifact{}, fmt.Errorf("duplicate chunk id %s (documents %q and %q)", c.ID, prev, doc.Title)
			}
			seen[c.ID] = doc.Title
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return Artifact{}, fmt.Errorf("no chunks to embed")
	}

	b.logger.Info("embedding chunks", "chunks", len(chunks), "embedder", b.embedder.Name(), "concurrency", b.cfg.Concurrency)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)
	for i := range chunks {
		g.Go(func() error {
			return util.Retry(gctx, b.cfg.MaxRetries, b.cfg.RetryDelay, func(ctx context.Context) error {
				vec, err := b.embedder.Embed(ctx, chunks[i].Title+"\n"+chunks[i].Text)
				if err != nil {
					b.logger.Debug("embedding attempt failed", "chunk", chunks[i].ID, "err", err)
					return fmt.Errorf("embedding chunk %s: %w", chunks[i].ID, err)
				}
				chunks[i].Embedding = vec
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return Artifact{}, err
	}

	b.logger.Info("embedded chunks", "chunks", len(chunks), "latency", time.Since(start).Round(time.Millisecond))

	return Artifact{
		Version:   ArtifactVersion,
		Embedder:  b.embedder.Name(),
		Dimension: b.embedder.Dimension(),
		CreatedAt: time.Now().UTC(),
		Chunks:    chunks,
	}, nil
}

// WriteArtifact writes the artifact as JSON, replacing any existing file
func WriteArtifact(path string, a Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".kb-*.json")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}
