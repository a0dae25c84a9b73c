// ABOUTME: Prompt assembly for the chat engine: system instruction, type context and reference chunks
// ABOUTME: Enforces a character budget on reference material (4 chars ≈ 1 token)
package core

import (
	"fmt"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

const systemInstruction = `You are the Pawsonality assistant, an expert on dog personality types.
You explain what a dog's Pawsonality type means and give practical, friendly advice on
training, walks, socialization and daily care.

Guidelines:
- Be warm and concise; prefer concrete steps over general statements.
- Base your answer on the reference material when it is provided and cite sources as [source: id].
- Say so honestly when you do not know something.
- For medical symptoms, recommend seeing a veterinarian instead of diagnosing.
- Answer in the language the user writes in.`

const noReferenceInstruction = `REFERENCE MATERIAL:
No matching entries were found in the Pawsonality knowledge base. Offer general dog care
guidance and mention that type-specific details may be limited.`

// FallbackMessage is returned when a dependency fails
const FallbackMessage = "Sorry, something went wrong while preparing an answer. Please try again in a moment."

// NoContextMessage is the extractive answer when nothing relevant was retrieved
const NoContextMessage = "I could not find anything about that in the Pawsonality knowledge base yet. " +
	"Try asking about walks, training, socialization or your dog's personality type."

// DefaultMaxPromptTokens bounds the reference material added to a prompt
const DefaultMaxPromptTokens = 3000

// BuildSystemPrompt assembles the system prompt and returns the results that
// fit in the token budget. Results keep their rank order.
func BuildSystemPrompt(pt *models.PersonalityType, results []models.RetrievalResult, maxTokens int) (string, []models.RetrievalResult) {
	var sections []string
	sections = append(sections, "SYSTEM:\n"+systemInstruction+"\n")

	if pt != nil {
		sections = append(sections, formatTypeContext(pt))
	}

	used := fitResults(results, maxTokens)
	if len(used) == 0 {
		sections = append(sections, noReferenceInstruction+"\n")
	} else {
		sections = append(sections, formatReferences(used))
	}

	return strings.Join(sections, "\n"), used
}

// BuildExplainPrompt assembles the prompt used to explain a single type
func BuildExplainPrompt(pt *models.PersonalityType, code string, chunks []models.KnowledgeChunk) string {
	var sb strings.Builder
	sb.WriteString("SYSTEM:\n" + systemInstruction + "\n\n")
	if pt != nil {
		sb.WriteString(formatTypeContext(pt))
		sb.WriteString("\n")
	}
	sb.WriteString("REFERENCE MATERIAL:\n")
	for _, c := range chunks {
		fmt.Fprintf(&sb, "[source: %s] %s\n%s\n\n", c.ID, c.Title, c.Text)
	}
	fmt.Fprintf(&sb, "TASK:\nExplain the %s type to its owner: personality, strengths, common challenges, "+
		"and three practical care tips. Use short sections.\n", code)
	return sb.String()
}

// Greeting returns the opening chat message, personalized when the type is known
func Greeting(pt *models.PersonalityType) string {
	if pt == nil {
		return "Hello! 🐾 I'm the Pawsonality assistant.\n\n" +
			"Ask me anything about your dog's personality type, training, walks or daily care."
	}
	return fmt.Sprintf("Hello! 🐾 You're the proud companion of a %s (%s).\n\n"+
		"Ask me anything about the %s type, training tips or everyday care.", pt.Name, pt.Code, pt.Code)
}

func formatTypeContext(pt *models.PersonalityType) string {
	var sb strings.Builder
	sb.WriteString("DOG PERSONALITY TYPE:\n")
	fmt.Fprintf(&sb, "Code: %s (%s)\n", pt.Code, pt.Name)
	if pt.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", pt.Description)
	}
	if len(pt.Traits) > 0 {
		fmt.Fprintf(&sb, "Traits: %s\n", strings.Join(pt.Traits, ", "))
	}
	if len(pt.CareTips) > 0 {
		sb.WriteString("Care tips:\n")
		for _, tip := range pt.CareTips {
			fmt.Fprintf(&sb, "- %s\n", tip)
		}
	}
	sb.WriteString("Tailor the answer to this type.\n")
	return sb.String()
}

func formatReferences(results []models.RetrievalResult) string {
	var sb strings.Builder
	sb.WriteString("REFERENCE MATERIAL (most relevant first):\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "\n[source: %s] %s (relevance %.2f)\n%s\n", r.Chunk.ID, r.Chunk.Title, r.Score, r.Chunk.Text)
	}
	return sb.String()
}

// fitResults keeps results in rank order until the budget is spent. The top
// result is always kept.
func fitResults(results []models.RetrievalResult, maxTokens int) []models.RetrievalResult {
	if maxTokens <= 0 {
		return results
	}
	maxChars := maxTokens * 4
	var used []models.RetrievalResult
	total := 0
	for i, r := range results {
		size := len(r.Chunk.Title) + len(r.Chunk.Text) + len(r.Chunk.ID) + 32
		if i > 0 && total+size > maxChars {
			break
		}
		total += size
		used = append(used, r)
	}
	return used
}
