// ABOUTME: Deterministic offline embedder based on signed feature hashing
// ABOUTME: Hashes word unigrams and bigrams into a fixed number of buckets
package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

// DefaultHashDimension is the bucket count used when none is configured
const DefaultHashDimension = 384

const bigramWeight = 0.5

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// HashEmbedder needs no model files or network, so it is safe to use for
// both building the knowledge base and embedding live queries.
type HashEmbedder struct {
	dim      int
	maxRunes int
}

// NewHashEmbedder creates a hash embedder with dim buckets
func NewHashEmbedder(dim int) (*HashEmbedder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("hash embedder dimension must be positive, got %d", dim)
	}
	return &HashEmbedder{dim: dim, maxRunes: DefaultMaxInputRunes}, nil
}

// Name identifies the embedder and its dimension
func (h *HashEmbedder) Name() string { return fmt.Sprintf("hash-%d", h.dim) }

// Dimension returns the vector length
func (h *HashEmbedder) Dimension() int { return h.dim }

// Embed hashes the text into an L2-normalized vector
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingUnavailable, err)
	}
	if err := checkInput(text, h.maxRunes); err != nil {
		return nil, err
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens in input", models.ErrEmbeddingUnavailable)
	}

	vec := make([]float64, h.dim)
	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, bigramWeight)
		}
	}
	normalize(vec)
	return vec, nil
}

func (h *HashEmbedder) add(vec []float64, feature string, weight float64) {
	sum := fnv.New64a()
	_, _ = sum.Write([]byte(feature))
	v := sum.Sum64()
	idx := int(v % uint64(h.dim))
	if v>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Tokenize lowercases text and returns word tokens without stopwords.
// If only stopwords remain, they are kept so short queries still embed.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, stem(tok))
	}
	if len(out) == 0 {
		for _, tok := range raw {
			out = append(out, stem(tok))
		}
	}
	return out
}

// stem strips a plural "s" so "walks" and "walk" share a bucket
func stem(tok string) string {
	if len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
		return tok[:len(tok)-1]
	}
	return tok
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "can": {}, "do": {}, "does": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "how": {}, "i": {}, "if": {}, "in": {}, "is": {}, "it": {}, "its": {},
	"me": {}, "my": {}, "of": {}, "on": {}, "or": {}, "should": {}, "so": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"they": {}, "this": {}, "to": {}, "was": {}, "what": {}, "when": {}, "which": {},
	"who": {}, "why": {}, "will": {}, "with": {}, "you": {}, "your": {},
}
