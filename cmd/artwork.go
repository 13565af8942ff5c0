package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtworkFetch downloads a track's cover image and attaches it to the cached entry.
func (r *Runner) ArtworkFetch(ctx context.Context, cmd *cli.Command) error {
	if !r.config.Artwork.Enabled {
		return fmt.Errorf("%w: artwork fetching is disabled in config", shared.ErrInvalidConfig)
	}

	id := cmd.String("id")
	track, ok := r.cache.Track(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	if track.CoverImageURL == "" {
		return fmt.Errorf("%w: track %s has no cover image URL", shared.ErrInvalidInput, id)
	}

	r.logger.Info("downloading cover image", "track", id, "url", track.CoverImageURL)

	art, err := formatter.DownloadImage(ctx, track.CoverImageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch artwork: %w", err)
	}

	// The full image doubles as the icon; clients that need a smaller
	// rendition scale it on display.
	if err := r.cache.UpdateArtwork(id, art, art); err != nil {
		return err
	}

	r.writePlainln("✓ Artwork cached for %s - %s (%d bytes)", track.Artist, track.Title, len(art))
	return nil
}
