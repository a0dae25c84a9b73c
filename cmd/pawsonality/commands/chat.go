// ABOUTME: Chat commands: ask, explain and the interactive chat
// ABOUTME: Load the knowledge base and answer through the composer
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2jang/Pawsonality/internal/app"
	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/tui"
)

var (
	chatType  string
	chatModel string
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant a single question",
		Long: `Ask the Pawsonality assistant a single question.

The answer is grounded in the knowledge base and lists its sources.

Examples:
  pawsonality ask "How do I calm my dog during thunderstorms?"
  pawsonality ask --type WTIP "What games suit my dog?"
  pawsonality ask --model claude --format json "How long should walks be?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVarP(&chatType, "type", "t", "", "Personality type code to tailor the answer")
	cmd.Flags().StringVar(&chatModel, "model", "", "Model alias or id (claude, gpt4, gpt4-mini, llama, free)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	code, err := checkType(a, chatType)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	answer := a.Composer.ComposeWith(ctx, core.Request{
		Message:  strings.Join(args, " "),
		TypeCode: code,
		Model:    chatModel,
	})
	return printAnswer(cmd.OutOrStdout(), answer)
}

// NewExplainCmd creates the explain command
func NewExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <code>",
		Short: "Explain a personality type from the knowledge base",
		Long: `Explain a Pawsonality type using every knowledge base entry about it.

Example:
  pawsonality explain DILP`,
		Args: cobra.ExactArgs(1),
		RunE: runExplain,
	}
}

func runExplain(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	code, err := checkType(a, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return printAnswer(cmd.OutOrStdout(), a.Composer.Explain(ctx, code))
}

// NewChatCmd creates the interactive chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Long: `Open an interactive chat with the Pawsonality assistant.

Inside the chat:
  /type CODE   tailor answers to a personality type
  /reset       clear the conversation
  /quit        leave (also Esc or Ctrl+C)`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().StringVarP(&chatType, "type", "t", "", "Personality type code to tailor answers")
	cmd.Flags().StringVar(&chatModel, "model", "", "Model alias or id")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	code, err := checkType(a, chatType)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(a.Composer, a.Catalog, code, chatModel), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}

// checkType normalizes an optional type code and rejects unknown ones
func checkType(a *app.App, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", nil
	}
	if _, ok := a.Catalog.Type(code); !ok {
		return "", fmt.Errorf("unknown personality type: %s", code)
	}
	return code, nil
}
