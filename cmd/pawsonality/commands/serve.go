// ABOUTME: Serve command starts the HTTP API
// ABOUTME: Runs until SIGINT/SIGTERM, then shuts down gracefully
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2jang/Pawsonality/internal/api"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server for the quiz and chat endpoints.

Listens on PAWSONALITY_HOST:PAWSONALITY_PORT (default 0.0.0.0:8000).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		Catalog:     a.Catalog,
		Chat:        a.Composer,
		Logger:      a.Logger,
		CORSOrigins: a.Config.CORSOrigins,
		Version:     versionInfo.Version,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := a.Composer.Status()
	a.Logger.Info("starting Pawsonality",
		"mode", status.Mode,
		"model", status.Model,
		"embedder", status.Embedder,
		"chunks", status.Chunks)

	return server.Run(ctx, a.Config.Addr())
}
