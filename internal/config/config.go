// ABOUTME: Centralized configuration for the Pawsonality service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Embedder kinds
const (
	EmbedderHash   = "hash"
	EmbedderOpenAI = "openai"
)

// KBDataFile is the artifact location relative to the XDG data directories
const KBDataFile = "pawsonality/knowledge_base.json"

// LocalKBPath is the artifact location used when no XDG copy exists
const LocalKBPath = "data/knowledge_base.json"

// Config holds all configuration for Pawsonality
type Config struct {
	// Server settings
	Host        string
	Port        int
	CORSOrigins []string
	LogLevel    string

	// Data settings
	CatalogPath string
	KBPath      string
	CorpusDir   string

	// Language model settings
	OpenRouterKey     string
	RAGOnly           bool
	OpenRouterBaseURL string
	ChatModel         string
	LLMTimeout        time.Duration
	Temperature       float64
	MaxTokens         int

	// Embedding settings
	Embedder             string
	EmbeddingModel       string
	EmbeddingBaseURL     string
	EmbeddingKey         string
	EmbeddingDim         int
	EmbeddingTimeout     time.Duration
	EmbeddingMaxRetries  int
	EmbeddingRetryDelay  time.Duration
	EmbeddingConcurrency int

	// Retrieval settings
	TopK           int
	MinScore       float64
	HistoryWindow  int
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Host:                 getEnv("PAWSONALITY_HOST", "0.0.0.0"),
		Port:                 getEnvInt("PAWSONALITY_PORT", 8000),
		CORSOrigins:          getEnvList("PAWSONALITY_CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"}),
		LogLevel:             strings.ToLower(getEnv("PAWSONALITY_LOG_LEVEL", "info")),
		CatalogPath:          os.Getenv("PAWSONALITY_CATALOG_PATH"),
		KBPath:               os.Getenv("PAWSONALITY_KB_PATH"),
		CorpusDir:            getEnv("PAWSONALITY_CORPUS_DIR", "data/knowledge"),
		OpenRouterKey:        os.Getenv("OPENROUTER_API_KEY"),
		RAGOnly:              getEnvBool("PAWSONALITY_RAG_ONLY", false),
		OpenRouterBaseURL:    getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ChatModel:            getEnv("OPENROUTER_MODEL", "gpt4-mini"),
		LLMTimeout:           getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		Temperature:          getEnvFloat("LLM_TEMPERATURE", 0.7),
		MaxTokens:            getEnvInt("LLM_MAX_TOKENS", 1000),
		Embedder:             strings.ToLower(getEnv("EMBEDDER", EmbedderHash)),
		EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingBaseURL:     getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingKey:         getEnv("EMBEDDING_API_KEY", os.Getenv("OPENAI_API_KEY")),
		EmbeddingDim:         getEnvInt("EMBEDDING_DIM", 384),
		EmbeddingTimeout:     getEnvDuration("EMBEDDING_TIMEOUT", 10*time.Second),
		EmbeddingMaxRetries:  getEnvInt("EMBEDDING_MAX_RETRIES", 3),
		EmbeddingRetryDelay:  getEnvDuration("EMBEDDING_RETRY_DELAY", time.Second),
		EmbeddingConcurrency: getEnvInt("EMBEDDING_CONCURRENCY", 4),
		TopK:                 getEnvInt("RAG_TOP_K", 3),
		MinScore:             getEnvFloat("RAG_MIN_SCORE", 0.1),
		HistoryWindow:        getEnvInt("RAG_HISTORY_WINDOW", 5),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 45*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PAWSONALITY_PORT must be 1-65535, got %d", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("PAWSONALITY_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.TopK < 1 || c.TopK > 20 {
		return fmt.Errorf("RAG_TOP_K must be 1-20, got %d", c.TopK)
	}
	if c.MinScore < -1 || c.MinScore > 1 {
		return fmt.Errorf("RAG_MIN_SCORE must be between -1 and 1, got %f", c.MinScore)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("RAG_HISTORY_WINDOW must not be negative, got %d", c.HistoryWindow)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.Embedder != EmbedderHash && c.Embedder != EmbedderOpenAI {
		return fmt.Errorf("EMBEDDER must be %q or %q, got %q", EmbedderHash, EmbedderOpenAI, c.Embedder)
	}
	if c.EmbeddingConcurrency < 1 || c.EmbeddingConcurrency > 32 {
		return fmt.Errorf("EMBEDDING_CONCURRENCY must be 1-32, got %d", c.EmbeddingConcurrency)
	}
	if c.EmbeddingMaxRetries < 0 || c.EmbeddingMaxRetries > 10 {
		return fmt.Errorf("EMBEDDING_MAX_RETRIES must be 0-10, got %d", c.EmbeddingMaxRetries)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	for name, d := range map[string]time.Duration{
		"LLM_TIMEOUT":       c.LLMTimeout,
		"EMBEDDING_TIMEOUT": c.EmbeddingTimeout,
		"REQUEST_TIMEOUT":   c.RequestTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	if c.EmbeddingRetryDelay < 0 {
		return fmt.Errorf("EMBEDDING_RETRY_DELAY must not be negative, got %v", c.EmbeddingRetryDelay)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HasLLM reports whether a language model is configured
func (c *Config) HasLLM() bool {
	return c.OpenRouterKey != "" && !c.RAGOnly
}

// ResolveKBPath returns the artifact to load: the explicit path, an existing
// XDG data file, or the repository-local default.
func (c *Config) ResolveKBPath() string {
	if c.KBPath != "" {
		return c.KBPath
	}
	if p, err := xdg.SearchDataFile(KBDataFile); err == nil {
		return p
	}
	return LocalKBPath
}

// DefaultKBOutput returns where `kb build` writes when no path is given
func (c *Config) DefaultKBOutput() (string, error) {
	if c.KBPath != "" {
		return c.KBPath, nil
	}
	p, err := xdg.DataFile(KBDataFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return p, nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
