// ABOUTME: Embedder converts text into fixed-dimension vectors
// ABOUTME: Shared interface for the offline hash embedder and remote OpenAI-compatible models
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/2jang/Pawsonality/internal/models"
)

// DefaultMaxInputRunes bounds the text length accepted by an embedder
const DefaultMaxInputRunes = 2000

// Embedder turns text into a vector of Dimension() floats.
// Failures wrap models.ErrEmbeddingUnavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
	Name() string
}

func checkInput(text string, maxRunes int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty input", models.ErrEmbeddingUnavailable)
	}
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		return fmt.Errorf("%w: input exceeds %d characters", models.ErrEmbeddingUnavailable, maxRunes)
	}
	return nil
}

func normalize(vec []float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}
