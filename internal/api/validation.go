// ABOUTME: Request validation for the chat endpoint
// ABOUTME: Bounds message length and conversation history before the composer runs
package api

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/2jang/Pawsonality/internal/models"
)

// Chat request limits
const (
	MaxMessageRunes = 1000
	MaxHistoryTurns = 10
)

func validateChatRequest(req *chatRequest) error {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return errors.New("message is required")
	}
	if n := utf8.RuneCountInString(req.Message); n > MaxMessageRunes {
		return fmt.Errorf("message must be at most %d characters, got %d", MaxMessageRunes, n)
	}
	if len(req.ConversationHistory) > MaxHistoryTurns {
		return fmt.Errorf("conversation_history must have at most %d turns, got %d", MaxHistoryTurns, len(req.ConversationHistory))
	}
	for i, turn := range req.ConversationHistory {
		if turn.Role != models.RoleUser && turn.Role != models.RoleAssistant {
			return fmt.Errorf("conversation_history[%d]: role must be %q or %q", i, models.RoleUser, models.RoleAssistant)
		}
		if strings.TrimSpace(turn.Content) == "" {
			return fmt.Errorf("conversation_history[%d]: content is required", i)
		}
	}
	req.TypeCode = normalizeCode(req.TypeCode)
	req.Model = strings.TrimSpace(req.Model)
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
