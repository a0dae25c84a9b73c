// ABOUTME: Composer answers chat messages by retrieving knowledge chunks and prompting a language model
// ABOUTME: Never fails outward: dependency errors degrade to a fallback answer with zero confidence
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/2jang/Pawsonality/internal/embedding"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/retrieval"
)

// MaxExplainChunks bounds the chunks used to explain a type
const MaxExplainChunks = 10

// Completer generates an answer from a system prompt and conversation turns
type Completer interface {
	Complete(ctx context.Context, prompt string, history []models.ChatTurn) (string, error)
}

// modelCompleter is implemented by completers that accept a per-request model
type modelCompleter interface {
	CompleteWithModel(ctx context.Context, model, prompt string, history []models.ChatTurn) (string, error)
}

// TypeLookup resolves personality type codes
type TypeLookup interface {
	Type(code string) (models.PersonalityType, bool)
}

// ChunkSource lists the knowledge chunks attached to a type
type ChunkSource interface {
	ByType(code string) []models.KnowledgeChunk
}

// Options tunes retrieval and prompting
type Options struct {
	TopK            int
	MinScore        float64
	HistoryWindow   int
	RequestTimeout  time.Duration
	MaxPromptTokens int
}

// DefaultOptions returns the standard chat settings
func DefaultOptions() Options {
	return Options{
		TopK:            3,
		MinScore:        0.1,
		HistoryWindow:   5,
		RequestTimeout:  45 * time.Second,
		MaxPromptTokens: DefaultMaxPromptTokens,
	}
}

// Deps are the collaborators of a Composer. Model, Types and Chunks are optional.
type Deps struct {
	Embedder  embedding.Embedder
	Retriever retrieval.Retriever
	Model     Completer
	Types     TypeLookup
	Chunks    ChunkSource
	Logger    *log.Logger
}

// Request is a single chat message with its context
type Request struct {
	Message  string
	History  []models.ChatTurn
	TypeCode string
	Model    string
}

// Status describes the configured chat pipeline
type Status struct {
	Mode          string `json:"mode"`
	Model         string `json:"model,omitempty"`
	Embedder      string `json:"embedder"`
	Chunks        int    `json:"chunks"`
	TopK          int    `json:"top_k"`
	HistoryWindow int    `json:"history_window"`
}

// Composer turns chat messages into grounded answers
type Composer struct {
	embedder  embedding.Embedder
	retriever retrieval.Retriever
	model     Completer
	types     TypeLookup
	chunks    ChunkSource
	logger    *log.Logger
	opts      Options
	now       func() time.Time
}

// NewComposer creates a Composer. Zero option values fall back to DefaultOptions.
func NewComposer(deps Deps, opts Options) (*Composer, error) {
	if deps.Embedder == nil {
		return nil, errors.New("composer requires an embedder")
	}
	if deps.Retriever == nil {
		return nil, errors.New("composer requires a retriever")
	}

	def := DefaultOptions()
	if opts.TopK <= 0 {
		opts.TopK = def.TopK
	}
	if opts.HistoryWindow < 0 {
		opts.HistoryWindow = def.HistoryWindow
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = def.RequestTimeout
	}
	if opts.MaxPromptTokens <= 0 {
		opts.MaxPromptTokens = def.MaxPromptTokens
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Composer{
		embedder:  deps.Embedder,
		retriever: deps.Retriever,
		model:     deps.Model,
		types:     deps.Types,
		chunks:    deps.Chunks,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}, nil
}

// Compose answers a message using the configured default model
func (c *Composer) Compose(ctx context.Context, message string, history []models.ChatTurn, typeCode string) models.ChatAnswer {
	return c.ComposeWith(ctx, Request{Message: message, History: history, TypeCode: typeCode})
}

// ComposeWith answers a request. The whole pipeline shares one deadline.
func (c *Composer) ComposeWith(ctx context.Context, req Request) models.ChatAnswer {
	start := c.now()
	answer := c.newAnswer(req.TypeCode)
	logger := c.logger.With("request_id", answer.RequestID)

	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	vec, err := c.embedder.Embed(ctx, req.Message)
	if err != nil {
		logger.Error("embedding failed", "err", err)
		return c.fallback(answer)
	}

	results, err := c.retriever.Retrieve(ctx, vec, c.opts.TopK, answer.TypeCode)
	if err != nil {
		logger.Error("retrieval failed", "err", err)
		return c.fallback(answer)
	}
	results = filterByScore(results, c.opts.MinScore)
	logger.Debug("retrieved chunks", "count", len(results))

	if c.model == nil {
		answer = c.extractive(answer, results)
		logger.Info("answer composed", "mode", answer.Mode, "chunks", len(results), "latency", c.now().Sub(start))
		return answer
	}

	prompt, used := BuildSystemPrompt(c.lookup(answer.TypeCode), results, c.opts.MaxPromptTokens)
	turns := append(models.Window(req.History, c.opts.HistoryWindow), models.ChatTurn{
		Role:    models.RoleUser,
		Content: req.Message,
	})

	text, err := c.complete(ctx, req.Model, prompt, turns)
	if err != nil {
		logger.Error("model call failed", "err", err)
		return c.fallback(answer)
	}

	answer.Message = text
	answer.Mode = models.ModeGrounded
	cite(&answer, used)
	answer.Confidence = confidence(used)

	logger.Info("answer composed",
		"mode", answer.Mode,
		"chunks", len(used),
		"confidence", answer.Confidence,
		"latency", c.now().Sub(start))
	return answer
}

// Explain describes a personality type from its knowledge chunks
func (c *Composer) Explain(ctx context.Context, typeCode string) models.ChatAnswer {
	answer := c.newAnswer(typeCode)
	logger := c.logger.With("request_id", answer.RequestID, "type", answer.TypeCode)

	var chunks []models.KnowledgeChunk
	if c.chunks != nil {
		chunks = c.chunks.ByType(answer.TypeCode)
	}
	if len(chunks) > MaxExplainChunks {
		chunks = chunks[:MaxExplainChunks]
	}

	if len(chunks) == 0 {
		answer.Message = fmt.Sprintf("No information is available for the %s type yet.", answer.TypeCode)
		answer.Mode = models.ModeRAGOnly
		return answer
	}

	pt := c.lookup(answer.TypeCode)
	if c.model != nil {
		ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()

		prompt := BuildExplainPrompt(pt, answer.TypeCode, chunks)
		turns := []models.ChatTurn{{
			Role:    models.RoleUser,
			Content: fmt.Sprintf("Please explain the %s personality type.", answer.TypeCode),
		}}
		text, err := c.complete(ctx, "", prompt, turns)
		if err == nil {
			answer.Message = text
			answer.Mode = models.ModeGrounded
			citeChunks(&answer, chunks)
			answer.Confidence = 1.0
			return answer
		}
		logger.Warn("model call failed, using extractive summary", "err", err)
	}

	answer.Message = summarize(pt, chunks)
	answer.Mode = models.ModeRAGOnly
	citeChunks(&answer, chunks)
	answer.Confidence = 1.0
	return answer
}

// Status reports how answers are produced
func (c *Composer) Status() Status {
	st := Status{
		Mode:          models.ModeRAGOnly,
		Embedder:      c.embedder.Name(),
		TopK:          c.opts.TopK,
		HistoryWindow: c.opts.HistoryWindow,
	}
	if c.model != nil {
		st.Mode = models.ModeGrounded
		if named, ok := c.model.(interface{ Model() string }); ok {
			st.Model = named.Model()
		}
	}
	if counted, ok := c.chunks.(interface{ Len() int }); ok {
		st.Chunks = counted.Len()
	}
	return st
}

// Greeting returns the opening message for a type code, generic when unknown
func (c *Composer) Greeting(typeCode string) string {
	return Greeting(c.lookup(strings.ToUpper(strings.TrimSpace(typeCode))))
}

func (c *Composer) newAnswer(typeCode string) models.ChatAnswer {
	return models.ChatAnswer{
		Sources:   []string{},
		Citations: []models.Citation{},
		Timestamp: c.now().UTC(),
		RequestID: uuid.NewString(),
		TypeCode:  strings.ToUpper(strings.TrimSpace(typeCode)),
	}
}

func (c *Composer) lookup(code string) *models.PersonalityType {
	if code == "" || c.types == nil {
		return nil
	}
	pt, ok := c.types.Type(code)
	if !ok {
		return nil
	}
	return &pt
}

func (c *Composer) complete(ctx context.Context, model, prompt string, turns []models.ChatTurn) (string, error) {
	if model != "" {
		if mc, ok := c.model.(modelCompleter); ok {
			return mc.CompleteWithModel(ctx, model, prompt, turns)
		}
	}
	return c.model.Complete(ctx, prompt, turns)
}

func (c *Composer) fallback(answer models.ChatAnswer) models.ChatAnswer {
	answer.Message = FallbackMessage
	answer.Mode = models.ModeFallback
	answer.Sources = []string{}
	answer.Citations = []models.Citation{}
	answer.Confidence = 0
	return answer
}

// extractive builds an answer directly from the retrieved chunks
func (c *Composer) extractive(answer models.ChatAnswer, results []models.RetrievalResult) models.ChatAnswer {
	answer.Mode = models.ModeRAGOnly
	if len(results) == 0 {
		answer.Message = NoContextMessage
		return answer
	}

	top := results[0].Chunk
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here is what I found about %s:\n\n%s", top.Title, top.Text)
	if len(results) > 1 {
		titles := make([]string, 0, len(results)-1)
		for _, r := range results[1:] {
			titles = append(titles, r.Chunk.Title)
		}
		fmt.Fprintf(&sb, "\n\nRelated: %s", strings.Join(titles, "; "))
	}

	answer.Message = sb.String()
	cite(&answer, results)
	answer.Confidence = confidence(results)
	return answer
}

func summarize(pt *models.PersonalityType, chunks []models.KnowledgeChunk) string {
	var sb strings.Builder
	if pt != nil {
		fmt.Fprintf(&sb, "%s (%s)\n\n", pt.Name, pt.Code)
	}
	for i, ch := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s\n%s", ch.Title, ch.Text)
	}
	return sb.String()
}

func filterByScore(results []models.RetrievalResult, minScore float64) []models.RetrievalResult {
	out := make([]models.RetrievalResult, 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			out = append(out, r)
		}
	}
	return out
}

// cite records sources in rank order
func cite(answer *models.ChatAnswer, results []models.RetrievalResult) {
	answer.Sources = make([]string, 0, len(results))
	answer.Citations = make([]models.Citation, 0, len(results))
	for _, r := range results {
		answer.Sources = append(answer.Sources, r.Chunk.ID)
		answer.Citations = append(answer.Citations, models.Citation{ID: r.Chunk.ID, Title: r.Chunk.Title, Score: r.Score})
	}
}

func citeChunks(answer *models.ChatAnswer, chunks []models.KnowledgeChunk) {
	answer.Sources = make([]string, 0, len(chunks))
	answer.Citations = make([]models.Citation, 0, len(chunks))
	for _, ch := range chunks {
		answer.Sources = append(answer.Sources, ch.ID)
		answer.Citations = append(answer.Citations, models.Citation{ID: ch.ID, Title: ch.Title, Score: 1.0})
	}
}

// confidence is the top score clamped to [0,1]; zero without results
func confidence(results []models.RetrievalResult) float64 {
	if len(results) == 0 {
		return 0
	}
	score := results[0].Score
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
