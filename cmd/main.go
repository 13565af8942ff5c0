package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	library := services.NewLibraryService(config.Library.BaseURL, config.Library.RateLimit, nil)
	if config.Library.APIToken != "" {
		if err := library.Authenticate(context.Background(), map[string]string{
			"api_token": config.Library.APIToken,
		}); err != nil {
			logger.Warn("library authentication failed", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Library: library,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "playx",
		Usage:    "Browse and query a cached music catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
