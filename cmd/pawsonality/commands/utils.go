// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Output formatting helpers used by the quiz and chat commands
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/2jang/Pawsonality/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// jsonOutput reports whether commands should print JSON
func jsonOutput() bool {
	return outputFormat == "json"
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// printAnswer renders a chat answer with its citations
func printAnswer(w io.Writer, answer models.ChatAnswer) error {
	if jsonOutput() {
		return printJSON(w, answer)
	}
	fmt.Fprintln(w, answer.Message)
	if len(answer.Citations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sources:")
		for _, c := range answer.Citations {
			fmt.Fprintf(w, "  [%s] %s (%.2f)\n", c.ID, truncate(c.Title, 50), c.Score)
		}
	}
	if !quiet {
		fmt.Fprintf(w, "\nmode: %s  confidence: %.2f\n", answer.Mode, answer.Confidence)
	}
	return nil
}

// printType renders a personality type in text form
func printType(w io.Writer, pt models.PersonalityType, best, good []models.PersonalityType) {
	fmt.Fprintf(w, "%s  %s (%s)\n\n", pt.Code, pt.Name, pt.MBTI)
	fmt.Fprintln(w, pt.Description)
	if len(pt.Traits) > 0 {
		fmt.Fprintf(w, "\nTraits: %s\n", strings.Join(pt.Traits, ", "))
	}
	if pt.Solution != "" {
		fmt.Fprintf(w, "\n%s\n", pt.Solution)
	}
	if len(pt.CareTips) > 0 {
		fmt.Fprintln(w, "\nCare tips:")
		for _, tip := range pt.CareTips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
	if len(best) > 0 {
		fmt.Fprintf(w, "\nBest matches: %s\n", typeList(best))
	}
	if len(good) > 0 {
		fmt.Fprintf(w, "Good matches: %s\n", typeList(good))
	}
}

func typeList(types []models.PersonalityType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s (%s)", t.Code, t.Name))
	}
	return strings.Join(parts, ", ")
}
