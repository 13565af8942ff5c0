package main

import (
	"context"

	"github.com/desertthunder/playx/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the catalog HTTP API until interrupted.
//
// A sync is kicked off in the background so the API is responsive
// immediately; bulk endpoints fill in once the load completes.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	if host := cmd.String("host"); host != "" {
		cfg.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Server.Port = port
	}

	r.cache.Load(func(success bool) {
		if success {
			r.logger.Info("initial catalog sync completed", "size", r.cache.Size())
		} else {
			r.logger.Warn("initial catalog sync failed, API serves an empty catalog until a retry succeeds")
		}
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(r.logger))
	router.Handler(server.NewCatalogHandler(r.cache, r.tree, r.logger))

	return server.Serve(ctx, &cfg, router, r.logger)
}
