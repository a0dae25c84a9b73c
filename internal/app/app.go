// ABOUTME: Builds the process-wide objects shared by the CLI and the benchmark
// ABOUTME: Catalog, knowledge store, embedder, chat model and composer from config
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/2jang/Pawsonality/internal/config"
	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/embedding"
	"github.com/2jang/Pawsonality/internal/knowledge"
	"github.com/2jang/Pawsonality/internal/llm"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/personality"
	"github.com/2jang/Pawsonality/internal/retrieval"
)

// App holds the shared process objects. Store, Embedder and Composer are nil
// after LoadBase; Model is nil when no language model is configured.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Catalog  *personality.Catalog
	Store    *knowledge.Store
	Embedder embedding.Embedder
	Model    *llm.Client
	Composer *core.Composer
}

// ParseLevel maps a configured level name to a log level, defaulting to info
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}

// NewLogger builds the shared stderr-style logger at the given level
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "pawsonality",
		Level:           level,
	})
}

// LoadBase loads the catalog; enough for the quiz
func LoadBase(cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	catalog, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Logger: logger, Catalog: catalog}, nil
}

// Load additionally loads the knowledge base and builds the composer
func Load(cfg *config.Config, logger *log.Logger) (*App, error) {
	a, err := LoadBase(cfg, logger)
	if err != nil {
		return nil, err
	}

	path := a.Config.ResolveKBPath()
	store, err := knowledge.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base (run `pawsonality kb build` first): %w", err)
	}
	a.Store = store
	a.Logger.Debug("knowledge base loaded", "path", path, "chunks", store.Len(), "embedder", store.Embedder())

	embedder, err := NewEmbedder(a.Config)
	if err != nil {
		return nil, err
	}
	if err := CheckCompatible(store, embedder); err != nil {
		return nil, err
	}
	a.Embedder = embedder

	deps := core.Deps{
		Embedder:  embedder,
		Retriever: retrieval.NewLinearRetriever(store),
		Types:     a.Catalog,
		Chunks:    store,
		Logger:    a.Logger,
	}

	if a.Config.HasLLM() {
		client, err := NewChatModel(a.Config)
		if err != nil {
			return nil, err
		}
		a.Model = client
		deps.Model = client
		a.Logger.Debug("language model configured", "model", client.Model())
	} else {
		a.Logger.Info("no language model configured, answering from the knowledge base only")
	}

	composer, err := core.NewComposer(deps, core.Options{
		TopK:           a.Config.TopK,
		MinScore:       a.Config.MinScore,
		HistoryWindow:  a.Config.HistoryWindow,
		RequestTimeout: a.Config.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}
	a.Composer = composer
	return a, nil
}

// LoadCatalog loads the configured catalog or the built-in one
func LoadCatalog(cfg *config.Config) (*personality.Catalog, error) {
	if cfg.CatalogPath == "" {
		c, err := personality.Default()
		if err != nil {
			return nil, fmt.Errorf("loading built-in catalog: %w", err)
		}
		return c, nil
	}
	c, err := personality.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", cfg.CatalogPath, err)
	}
	return c, nil
}

// NewEmbedder creates the configured query and build embedder
func NewEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedder {
	case config.EmbedderOpenAI:
		e, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:    cfg.EmbeddingKey,
			BaseURL:   cfg.EmbeddingBaseURL,
			Model:     cfg.EmbeddingModel,
			Dimension: cfg.EmbeddingDim,
			Timeout:   cfg.EmbeddingTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating OpenAI embedder: %w", err)
		}
		return e, nil
	default:
		e, err := embedding.NewHashEmbedder(cfg.EmbeddingDim)
		if err != nil {
			return nil, fmt.Errorf("creating hash embedder: %w", err)
		}
		return e, nil
	}
}

// NewChatModel creates the OpenRouter chat client
func NewChatModel(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.DefaultConfig(cfg.OpenRouterKey)
	clientCfg.BaseURL = cfg.OpenRouterBaseURL
	clientCfg.Model = cfg.ChatModel
	clientCfg.Temperature = float32(cfg.Temperature)
	clientCfg.MaxTokens = cfg.MaxTokens
	clientCfg.Timeout = cfg.LLMTimeout

	client, err := llm.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating language model client: %w", err)
	}
	return client, nil
}

// CheckCompatible verifies the query embedder matches the one that built the store
func CheckCompatible(store *knowledge.Store, e embedding.Embedder) error {
	if store.Dimension() != e.Dimension() {
		return fmt.Errorf("%w: knowledge base has %d dimensions, embedder %s produces %d",
			models.ErrDimensionMismatch, store.Dimension(), e.Name(), e.Dimension())
	}
	if store.Embedder() != "" && store.Embedder() != e.Name() {
		return fmt.Errorf("knowledge base was built with %s but the configured embedder is %s; rebuild it with `pawsonality kb build`",
			store.Embedder(), e.Name())
	}
	return nil
}
