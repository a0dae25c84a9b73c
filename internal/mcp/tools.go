// ABOUTME: MCP tool definitions and registration for the Pawsonality server
// ABOUTME: Exposes the quiz, type table and chat engine to LLM agents
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
	"github.com/2jang/Pawsonality/internal/personality"
)

// ChatService answers questions and explains types
type ChatService interface {
	ComposeWith(ctx context.Context, req core.Request) models.ChatAnswer
	Explain(ctx context.Context, typeCode string) models.ChatAnswer
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, catalog *personality.Catalog, chat ChatService, logger *log.Logger) *Handlers {
	handlers := NewHandlers(catalog, chat, logger)

	// 1. list_questions - The quiz
	server.AddTool(mcp.Tool{
		Name:        "list_questions",
		Description: "List the Pawsonality quiz questions with their two options (A and B) and the axis each one scores.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListQuestions)

	// 2. classify_answers - Quiz answers to a personality type
	server.AddTool(mcp.Tool{
		Name:        "classify_answers",
		Description: "Classify quiz answers into a 4-letter Pawsonality type. Answers are either one A/B letter per question in order (\"ABBA...\") or id pairs (\"1=A,2=B,...\").",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"answers": map[string]interface{}{
					"type":        "string",
					"description": "Answers for every question",
				},
			},
			Required: []string{"answers"},
		},
	}, handlers.ClassifyAnswers)

	// 3. get_personality_type - Type table lookup
	server.AddTool(mcp.Tool{
		Name:        "get_personality_type",
		Description: "Get the description, traits, care tips and compatible types for a Pawsonality code such as WTIL.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "4-letter personality code",
				},
			},
			Required: []string{"code"},
		},
	}, handlers.GetPersonalityType)

	// 4. ask_pawsonality - Grounded chat answer
	server.AddTool(mcp.Tool{
		Name:        "ask_pawsonality",
		Description: "Ask the Pawsonality assistant a dog care or personality question. Answers are grounded in the knowledge base and cite their sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The question to ask",
				},
				"type_code": map[string]interface{}{
					"type":        "string",
					"description": "Optional personality code to tailor the answer",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Optional model alias (claude, gpt4, gpt4-mini, llama, free)",
				},
			},
			Required: []string{"message"},
		},
	}, handlers.AskPawsonality)

	// 5. explain_personality_type - Knowledge base summary of a type
	server.AddTool(mcp.Tool{
		Name:        "explain_personality_type",
		Description: "Explain a Pawsonality type in depth using every knowledge base entry about it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "4-letter personality code",
				},
			},
			Required: []string{"code"},
		},
	}, handlers.ExplainPersonalityType)

	return handlers
}

func discardLogger(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
