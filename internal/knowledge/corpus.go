// ABOUTME: Curated corpus documents and their conversion into knowledge chunks
// ABOUTME: Splits documents into paragraph chunks and derives type profile documents
package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/personality"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// MaxChunkRunes is the largest paragraph kept as a single chunk
const MaxChunkRunes = 1200

// Document is one curated knowledge source
type Document struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	TypeCode string `yaml:"type_code"`
	Content  string `yaml:"content"`
}

type corpusFile struct {
	Documents []Document `yaml:"documents"`
}

// LoadCorpus reads every *.yaml and *.yml file in dir, in file name order
func LoadCorpus(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var f corpusFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		docs = append(docs, f.Documents...)
	}
	return docs, nil
}

// TypeDocuments derives profile, care and compatibility documents for every
// personality type in the catalog
func TypeDocuments(c *personality.Catalog) []Document {
	var docs []Document
	for _, pt := range c.Types() {
		docs = append(docs, Document{
			ID:       strings.ToLower(pt.Code) + "-profile",
			Title:    fmt.Sprintf("%s %s profile", pt.Code, pt.Name),
			Category: "profile",
			TypeCode: pt.Code,
			Content: fmt.Sprintf("%s (%s, similar to MBTI %s). %s\n\nKey traits: %s.",
				pt.Name, pt.Code, pt.MBTI, pt.Description, strings.Join(pt.Traits, ", ")),
		})

		docs = append(docs, Document{
			ID:       strings.ToLower(pt.Code) + "-care",
			Title:    fmt.Sprintf("%s %s care guide", pt.Code, pt.Name),
			Category: "care",
			TypeCode: pt.Code,
			Content:  fmt.Sprintf("%s\n\nCare tips for %s dogs: %s", pt.Solution, pt.Code, strings.Join(pt.CareTips, " ")),
		})

		best, good, err := c.Matches(pt.Code)
		if err != nil || (len(best) == 0 && len(good) == 0) {
			continue
		}
		docs = append(docs, Document{
			ID:       strings.ToLower(pt.Code) + "-matches",
			Title:    fmt.Sprintf("%s %s compatibility", pt.Code, pt.Name),
			Category: "compatibility",
			TypeCode: pt.Code,
			Content: fmt.Sprintf("%s (%s) gets along best with %s. Good companions also include %s.",
				pt.Name, pt.Code, describeTypes(best), describeTypes(good)),
		})
	}
	return docs
}

func describeTypes(types []models.PersonalityType) string {
	if len(types) == 0 {
		return "no listed types"
	}
	parts := make([]string, len(types))
	for i, pt := range types {
		parts[i] = fmt.Sprintf("%s (%s)", pt.Name, pt.Code)
	}
	return strings.Join(parts, " and ")
}

// Chunk splits a document into paragraph chunks without embeddings.
// Paragraphs longer than MaxChunkRunes are split on sentence boundaries.
func Chunk(doc Document) []models.KnowledgeChunk {
	id := doc.ID
	if id == "" {
		id = "doc-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(doc.Title+"\n"+doc.Content)).String()[:8]
	}

	var texts []string
	for _, para := range splitParagraphs(doc.Content) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= MaxChunkRunes {
			texts = append(texts, para)
			continue
		}
		texts = append(texts, packSentences(splitSentences(para), MaxChunkRunes)...)
	}

	chunks := make([]models.KnowledgeChunk, 0, len(texts))
	for i, text := range texts {
		chunkID := id
		if len(texts) > 1 {
			chunkID = fmt.Sprintf("%s-%d", id, i+1)
		}
		chunks = append(chunks, models.KnowledgeChunk{
			ID:       chunkID,
			Title:    doc.Title,
			Text:     text,
			TypeCode: strings.ToUpper(doc.TypeCode),
			Category: doc.Category,
			Source:   id,
		})
	}
	return chunks
}

// splitParagraphs splits on blank lines, accepting both \n and \r\n endings
func splitParagraphs(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
}

// splitSentences splits on ". " and restores the period
func splitSentences(text string) []string {
	parts := strings.Split(text, ". ")
	var out []string
	for i, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if i < len(parts)-1 && !strings.HasSuffix(s, ".") {
			s += "."
		}
		out = append(out, s)
	}
	return out
}

// packSentences groups sentences into chunks of at most limit runes. A single
// sentence longer than the limit becomes its own chunk.
func packSentences(sentences []string, limit int) []string {
	var out []string
	var cur strings.Builder
	for _, s := range sentences {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(s) > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(s)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
