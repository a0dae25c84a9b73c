// ABOUTME: Tests for the chat completion client against a local HTTP server
// ABOUTME: Covers message assembly, attribution headers, aliases and failure mapping
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2jang/Pawsonality/internal/models"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Referer string
	Title   string
}

func chatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "openai/gpt-4o-mini",
		"choices": []map[string]any{
			{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}},
		},
	})
}

func testClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	cfg := DefaultConfig("test-key")
	cfg.BaseURL = url
	cfg.Timeout = timeout
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(DefaultConfig("")); err == nil {
		t.Error("NewClient() without key should fail")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude", "anthropic/claude-3.5-sonnet"},
		{"GPT4", "openai/gpt-4o"},
		{"gpt4-mini", "openai/gpt-4o-mini"},
		{"llama", "meta-llama/llama-3.3-70b-instruct"},
		{"free", "google/gemini-2.0-flash-exp:free"},
		{"mistralai/mistral-7b", "mistralai/mistral-7b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ResolveModel(tt.in); got != tt.want {
				t.Errorf("ResolveModel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestComplete_SendsPromptAndHistory(t *testing.T) {
	var got capturedRequest
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		got.Referer = r.Header.Get("HTTP-Referer")
		got.Title = r.Header.Get("X-Title")
		writeCompletion(w, "  Try shorter walks.  ")
	})

	c := testClient(t, srv.URL, time.Second)
	history := []models.ChatTurn{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
		{Role: models.RoleUser, Content: "walks?"},
	}

	text, err := c.Complete(context.Background(), "system prompt", history)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "Try shorter walks." {
		t.Errorf("text = %q", text)
	}

	if got.Model != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", got.Model)
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(got.Messages) != len(wantRoles) {
		t.Fatalf("messages = %d, want %d", len(got.Messages), len(wantRoles))
	}
	for i, role := range wantRoles {
		if got.Messages[i].Role != role {
			t.Errorf("messages[%d].Role = %s, want %s", i, got.Messages[i].Role, role)
		}
	}
	if got.Messages[3].Content != "walks?" {
		t.Errorf("last message = %q", got.Messages[3].Content)
	}
	if got.Referer == "" || got.Title != "Pawsonality" {
		t.Errorf("attribution headers = %q / %q", got.Referer, got.Title)
	}
}

func TestCompleteWithModel_Override(t *testing.T) {
	var got capturedRequest
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeCompletion(w, "ok")
	})

	c := testClient(t, srv.URL, time.Second)
	if _, err := c.CompleteWithModel(context.Background(), "claude", "p", []models.ChatTurn{{Role: models.RoleUser, Content: "q"}}); err != nil {
		t.Fatalf("CompleteWithModel() error = %v", err)
	}
	if got.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("model = %q", got.Model)
	}
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down"}}`))
		}},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
		}},
		{"empty content", func(w http.ResponseWriter, r *http.Request) {
			writeCompletion(w, "   ")
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{not json`))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.handler)
			c := testClient(t, srv.URL, 100*time.Millisecond)

			_, err := c.Complete(context.Background(), "p", []models.ChatTurn{{Role: models.RoleUser, Content: "q"}})
			if !errors.Is(err, models.ErrModelUnavailable) {
				t.Errorf("Complete() error = %v, want ErrModelUnavailable", err)
			}
		})
	}
}
