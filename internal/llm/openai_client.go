// ABOUTME: Chat completion client for OpenAI-compatible APIs (OpenRouter by default)
// ABOUTME: Single attempt per call with a bounded timeout; failures map to ErrModelUnavailable
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2jang/Pawsonality/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the OpenRouter API root
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is the alias used when no model is configured
	DefaultModel = "gpt4-mini"
	// DefaultTimeout bounds a single completion call
	DefaultTimeout = 30 * time.Second
)

// modelAliases maps short names to OpenRouter model ids
var modelAliases = map[string]string{
	"claude":    "anthropic/claude-3.5-sonnet",
	"gpt4":      "openai/gpt-4o",
	"gpt4-mini": "openai/gpt-4o-mini",
	"llama":     "meta-llama/llama-3.3-70b-instruct",
	"free":      "google/gemini-2.0-flash-exp:free",
}

// ResolveModel expands an alias; unknown names are returned unchanged
func ResolveModel(name string) string {
	if id, ok := modelAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return name
}

// Aliases returns the supported model aliases
func Aliases() map[string]string {
	out := make(map[string]string, len(modelAliases))
	for k, v := range modelAliases {
		out[k] = v
	}
	return out
}

// ClientConfig holds configuration for the chat client
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	AppURL      string
	AppName     string
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   1000,
		Timeout:     DefaultTimeout,
		AppURL:      "https://github.com/2jang/Pawsonality",
		AppName:     "Pawsonality",
	}
}

// Client wraps the go-openai client. It never retries; callers decide how
// to degrade.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewClient creates a chat client from config
func NewClient(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("language model API key is required")
	}

	clientCfg := openai.DefaultConfig(config.APIKey)
	clientCfg.BaseURL = config.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultBaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: config.AppURL,
			title:   config.AppName,
		},
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       ResolveModel(model),
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		timeout:     timeout,
	}, nil
}

// Model returns the resolved default model id
func (c *Client) Model() string { return c.model }

// Complete sends the system prompt plus history (ending with the user
// message) to the default model
func (c *Client) Complete(ctx context.Context, prompt string, history []models.ChatTurn) (string, error) {
	return c.CompleteWithModel(ctx, "", prompt, history)
}

// CompleteWithModel is Complete with an optional model alias or id override
func (c *Client) CompleteWithModel(ctx context.Context, model, prompt string, history []models.ChatTurn) (string, error) {
	if model == "" {
		model = c.model
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       ResolveModel(model),
		Messages:    buildMessages(prompt, history),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", models.ErrModelUnavailable)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", models.ErrModelUnavailable)
	}
	return content, nil
}

func buildMessages(prompt string, history []models.ChatTurn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if prompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt,
		})
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	return messages
}

// attributionTransport adds the OpenRouter app attribution headers
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}
