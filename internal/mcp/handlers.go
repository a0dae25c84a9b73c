// ABOUTME: MCP tool handler implementations for the Pawsonality server
// ABOUTME: Validates arguments and returns JSON text results or tool errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/personality"
)

// maxMessageRunes bounds questions sent through ask_pawsonality
const maxMessageRunes = 1000

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	catalog *personality.Catalog
	chat    ChatService
	logger  *log.Logger
}

// NewHandlers creates tool handlers. chat may be nil when only the quiz tools are used.
func NewHandlers(catalog *personality.Catalog, chat ChatService, logger *log.Logger) *Handlers {
	return &Handlers{catalog: catalog, chat: chat, logger: discardLogger(logger)}
}

// ListQuestions handles the list_questions tool
func (h *Handlers) ListQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"axes":      h.catalog.Axes(),
		"questions": h.catalog.Questions(),
	}
	return jsonResult(response)
}

// ClassifyAnswers handles the classify_answers tool
func (h *Handlers) ClassifyAnswers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := request.RequireString("answers")
	if err != nil {
		return mcp.NewToolResultError("answers argument is required and must be a string"), nil
	}

	sub, err := personality.ParseAnswers(spec, h.catalog.Questions())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid answers: %v", err)), nil
	}

	result, err := h.catalog.Result(sub)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}
	return jsonResult(result)
}

// GetPersonalityType handles the get_personality_type tool
func (h *Handlers) GetPersonalityType(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code argument is required and must be a string"), nil
	}

	pt, ok := h.catalog.Type(code)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown personality type: %s", code)), nil
	}
	best, good, err := h.catalog.Matches(pt.Code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("match lookup failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"type":         pt,
		"best_matches": summaries(best),
		"good_matches": summaries(good),
	}
	return jsonResult(response)
}

// AskPawsonality handles the ask_pawsonality tool
func (h *Handlers) AskPawsonality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.chat == nil {
		return mcp.NewToolResultError("chat is not available: knowledge base not loaded"), nil
	}

	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return mcp.NewToolResultError("message must not be empty"), nil
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		return mcp.NewToolResultError(fmt.Sprintf("message must be at most %d characters", maxMessageRunes)), nil
	}

	typeCode := strings.ToUpper(strings.TrimSpace(request.GetString("type_code", "")))
	if typeCode != "" {
		if _, ok := h.catalog.Type(typeCode); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown personality type: %s", typeCode)), nil
		}
	}

	answer := h.chat.ComposeWith(ctx, core.Request{
		Message:  message,
		TypeCode: typeCode,
		Model:    strings.TrimSpace(request.GetString("model", "")),
	})
	h.logger.Debug("mcp answer", "request_id", answer.RequestID, "mode", answer.Mode)
	return jsonResult(answer)
}

// ExplainPersonalityType handles the explain_personality_type tool
func (h *Handlers) ExplainPersonalityType(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.chat == nil {
		return mcp.NewToolResultError("chat is not available: knowledge base not loaded"), nil
	}

	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code argument is required and must be a string"), nil
	}
	pt, ok := h.catalog.Type(code)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown personality type: %s", code)), nil
	}

	return jsonResult(h.chat.Explain(ctx, pt.Code))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

type typeSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func summaries(types []models.PersonalityType) []typeSummary {
	out := make([]typeSummary, 0, len(types))
	for _, pt := range types {
		out = append(out, typeSummary{Code: pt.Code, Name: pt.Name})
	}
	return out
}
