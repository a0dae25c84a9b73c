// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"PAWSONALITY_HOST", "PAWSONALITY_PORT", "PAWSONALITY_CORS_ORIGINS", "PAWSONALITY_LOG_LEVEL",
	"PAWSONALITY_CATALOG_PATH", "PAWSONALITY_KB_PATH", "PAWSONALITY_CORPUS_DIR", "PAWSONALITY_RAG_ONLY",
	"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL",
	"LLM_TIMEOUT", "LLM_TEMPERATURE", "LLM_MAX_TOKENS",
	"EMBEDDER", "EMBEDDING_MODEL", "EMBEDDING_BASE_URL", "EMBEDDING_API_KEY", "OPENAI_API_KEY",
	"EMBEDDING_DIM", "EMBEDDING_TIMEOUT", "EMBEDDING_MAX_RETRIES", "EMBEDDING_RETRY_DELAY", "EMBEDDING_CONCURRENCY",
	"RAG_TOP_K", "RAG_MIN_SCORE", "RAG_HISTORY_WINDOW", "REQUEST_TIMEOUT",
}

// clearEnv blanks every variable Load reads; empty values select defaults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %s, want 0.0.0.0:8000", cfg.Addr())
	}
	if len(cfg.CORSOrigins) != 3 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v, want three localhost origins", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.CorpusDir != "data/knowledge" {
		t.Errorf("CorpusDir = %s, want data/knowledge", cfg.CorpusDir)
	}
	if cfg.ChatModel != "gpt4-mini" {
		t.Errorf("ChatModel = %s, want gpt4-mini", cfg.ChatModel)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("LLMTimeout = %v, want 30s", cfg.LLMTimeout)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %f, want 0.7", cfg.Temperature)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d, want 1000", cfg.MaxTokens)
	}
	if cfg.Embedder != EmbedderHash {
		t.Errorf("Embedder = %s, want hash", cfg.Embedder)
	}
	if cfg.EmbeddingDim != 384 {
		t.Errorf("EmbeddingDim = %d, want 384", cfg.EmbeddingDim)
	}
	if cfg.EmbeddingConcurrency != 4 {
		t.Errorf("EmbeddingConcurrency = %d, want 4", cfg.EmbeddingConcurrency)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.MinScore != 0.1 {
		t.Errorf("MinScore = %f, want 0.1", cfg.MinScore)
	}
	if cfg.HistoryWindow != 5 {
		t.Errorf("HistoryWindow = %d, want 5", cfg.HistoryWindow)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v, want 45s", cfg.RequestTimeout)
	}
	if cfg.HasLLM() {
		t.Error("HasLLM() = true without an API key")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAWSONALITY_PORT", "9090")
	t.Setenv("PAWSONALITY_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PAWSONALITY_LOG_LEVEL", "DEBUG")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENROUTER_MODEL", "claude")
	t.Setenv("EMBEDDER", "openai")
	t.Setenv("OPENAI_API_KEY", "fallback-key")
	t.Setenv("EMBEDDING_DIM", "1536")
	t.Setenv("RAG_TOP_K", "5")
	t.Setenv("REQUEST_TIMEOUT", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "https://a.example|https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if !cfg.HasLLM() {
		t.Error("HasLLM() = false with an API key")
	}
	if cfg.ChatModel != "claude" {
		t.Errorf("ChatModel = %s, want claude", cfg.ChatModel)
	}
	if cfg.Embedder != EmbedderOpenAI {
		t.Errorf("Embedder = %s, want openai", cfg.Embedder)
	}
	if cfg.EmbeddingKey != "fallback-key" {
		t.Errorf("EmbeddingKey = %s, want fallback-key", cfg.EmbeddingKey)
	}
	if cfg.EmbeddingDim != 1536 {
		t.Errorf("EmbeddingDim = %d, want 1536", cfg.EmbeddingDim)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.RequestTimeout != time.Minute {
		t.Errorf("RequestTimeout = %v, want 1m", cfg.RequestTimeout)
	}

	t.Setenv("PAWSONALITY_RAG_ONLY", "true")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.HasLLM() {
		t.Error("HasLLM() = true with PAWSONALITY_RAG_ONLY set")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"top k zero", func(c *Config) { c.TopK = 0 }},
		{"top k too large", func(c *Config) { c.TopK = 21 }},
		{"min score", func(c *Config) { c.MinScore = 1.5 }},
		{"history window", func(c *Config) { c.HistoryWindow = -1 }},
		{"dimension", func(c *Config) { c.EmbeddingDim = 0 }},
		{"embedder", func(c *Config) { c.Embedder = "bert" }},
		{"concurrency", func(c *Config) { c.EmbeddingConcurrency = 33 }},
		{"retries", func(c *Config) { c.EmbeddingMaxRetries = 11 }},
		{"temperature", func(c *Config) { c.Temperature = 2.5 }},
		{"max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"llm timeout", func(c *Config) { c.LLMTimeout = 0 }},
		{"request timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAWSONALITY_PORT", "not-a-number")
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want default 8000", cfg.Port)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("LLMTimeout = %v, want default 30s", cfg.LLMTimeout)
	}
}

func TestKBPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAWSONALITY_KB_PATH", "/tmp/kb.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := cfg.ResolveKBPath(); got != "/tmp/kb.json" {
		t.Errorf("ResolveKBPath() = %s, want /tmp/kb.json", got)
	}
	out, err := cfg.DefaultKBOutput()
	if err != nil || out != "/tmp/kb.json" {
		t.Errorf("DefaultKBOutput() = %s, %v", out, err)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
