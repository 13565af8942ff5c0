package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playx/internal/formatter"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes the catalog, or a single playlist, to the chosen format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	listing, imageURL, err := r.buildListing(ctx, cmd.String("playlist"))
	if err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(listing, output)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Exported %d tracks", len(listing.Tracks))
		r.writePlain("Tracks: %s\n", result.TracksFile)
		r.writePlain("Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(ctx, listing, output, imageURL)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Exported %d tracks to %s", len(listing.Tracks), result.Directory)
		for _, file := range result.Files {
			r.writePlain("• %s\n", file)
		}
	case "text", "txt":
		path, err := formatter.WriteTextExport(listing, output)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Exported %d tracks to %s", len(listing.Tracks), path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	return nil
}

// buildListing assembles the export listing, resolving playlist membership
// through the catalog with a service fallback for unsynced tracks.
func (r *Runner) buildListing(ctx context.Context, playlistID string) (*formatter.Listing, string, error) {
	if playlistID == "" {
		return &formatter.Listing{
			Title:       "catalog",
			Description: fmt.Sprintf("Full catalog from %s", r.library.Name()),
			Tracks:      r.cache.AllTracks(),
		}, "", nil
	}

	playlist, err := r.library.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve playlist: %w", err)
	}

	var imageURL string
	tracks := make([]models.Track, 0, len(playlist.TrackIDs))
	for _, trackID := range playlist.TrackIDs {
		track, ok := r.cache.Track(trackID)
		if !ok {
			fetched, err := r.library.GetTrack(ctx, trackID)
			if err != nil {
				r.logger.Warn("skipping unresolvable playlist track", "track", trackID, "error", err)
				continue
			}
			track = *fetched
		}
		if imageURL == "" && track.CoverImageURL != "" {
			imageURL = track.CoverImageURL
		}
		tracks = append(tracks, track)
	}

	return &formatter.Listing{
		Title:       playlist.Name,
		Description: playlist.Description,
		Tracks:      tracks,
	}, imageURL, nil
}
