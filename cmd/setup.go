package main

import (
	"context"
	"os"

	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a starter configuration file from the embedded template.
//
// An existing file is left untouched.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
		r.writePlainln("Config already exists at %s", configPath)
		return nil
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlainln("✓ Created %s", configPath)
	r.writePlain("Next steps:\n")
	r.writePlain("1. Set library.base_url and library.api_token\n")
	r.writePlain("2. Run 'playx sync' to populate the catalog\n")
	return nil
}
