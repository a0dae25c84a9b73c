// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes the quiz and assistant to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/2jang/Pawsonality/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Pawsonality as an MCP (Model Context Protocol) server over stdio,
letting LLM agents take the quiz, look up types and ask the assistant.

When no knowledge base is available only the quiz tools work.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  pawsonality mcp

  # Configure in the client's config file:
  # {
  #   "mcpServers": {
  #     "pawsonality": {
  #       "command": "pawsonality",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	var chat mcp.ChatService
	if err != nil {
		base, baseErr := loadBase()
		if baseErr != nil {
			return baseErr
		}
		base.Logger.Warn("chat tools disabled", "err", err)
		a = base
	} else {
		chat = a.Composer
	}

	server := mcpserver.NewMCPServer(
		"Pawsonality",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, a.Catalog, chat, a.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
