// ABOUTME: Command-side wiring: config plus a logger honoring --verbose/--quiet
// ABOUTME: Delegates object construction to the app package
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/2jang/Pawsonality/internal/app"
	"github.com/2jang/Pawsonality/internal/config"
)

// newLogger builds the shared logger. --verbose and --quiet override the configured level.
func newLogger(level string) *log.Logger {
	lvl := app.ParseLevel(level)
	if verbose {
		lvl = log.DebugLevel
	}
	if quiet {
		lvl = log.ErrorLevel
	}
	return app.NewLogger(os.Stderr, lvl)
}

func loadConfig() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

// loadBase loads config, logger and catalog; enough for quiz commands
func loadBase() (*app.App, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.LoadBase(cfg, logger)
}

// loadApp additionally loads the knowledge base and builds the composer
func loadApp() (*app.App, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Load(cfg, logger)
}
