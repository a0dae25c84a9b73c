// ABOUTME: Chat turns and composed answers for the chat engine
// ABOUTME: Includes conversation windowing helpers
package models

import "time"

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Answer modes
const (
	ModeGrounded = "rag+llm"
	ModeRAGOnly  = "rag-only"
	ModeFallback = "fallback"
)

// ChatTurn is one message of a conversation
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Citation describes a knowledge chunk an answer drew on
type Citation struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// ChatAnswer is the composed response to a chat message
type ChatAnswer struct {
	Message    string     `json:"message"`
	Sources    []string   `json:"sources"`
	Citations  []Citation `json:"citations"`
	Confidence float64    `json:"confidence"`
	Timestamp  time.Time  `json:"timestamp"`
	RequestID  string     `json:"request_id"`
	Mode       string     `json:"mode"`
	TypeCode   string     `json:"type_code,omitempty"`
}

// Window returns the last n turns, oldest first
func Window(history []ChatTurn, n int) []ChatTurn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]ChatTurn, len(history))
	copy(out, history)
	return out
}
