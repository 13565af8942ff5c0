package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playx/internal/browse"
	"github.com/desertthunder/playx/internal/catalog"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Sync populates the catalog from the library and reports the resulting size.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("syncing catalog from library", "service", r.library.Name())

	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	r.writePlainln("✓ Catalog synced: %d tracks", r.cache.Size())
	return nil
}

// Status prints the catalog's lifecycle state and size.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	status := map[string]any{
		"state": r.cache.State().String(),
		"ready": r.cache.IsReady(),
		"size":  r.cache.Size(),
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	r.writePlainHeader("Catalog Status")
	r.writePlain("State: %s\n", status["state"])
	r.writePlain("Tracks: %d\n", status["size"])
	return nil
}

// TracksList prints every track in the catalog, optionally shuffled.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	tracks := r.cache.AllTracks()
	if cmd.Bool("shuffle") {
		tracks = r.cache.ShuffledTracks()
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Tracks (%d)", len(tracks)))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
	}
	return nil
}

// TracksGet looks up a single track by id.
//
// Works against whatever is currently cached, so a mid-sync lookup can
// succeed before the catalog is fully ready.
func (r *Runner) TracksGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	track, ok := r.cache.Track(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlainHeader(track.Title)
	r.writePlain("Artist: %s\n", track.Artist)
	r.writePlain("Album: %s\n", track.Album)
	r.writePlain("Genre: %s\n", track.Genre)
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.Duration))
	r.writePlain("Favorite: %v\n", r.cache.IsFavorite(track.ID))
	return nil
}

// Search matches tracks against a metadata field.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	field, err := catalog.ParseField(cmd.String("field"))
	if err != nil {
		return err
	}

	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	results := r.cache.Search(field, shared.NormalizeQuery(query))

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(results)))
	for i, track := range results {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Title)
	}
	return nil
}

// Genres lists the distinct genres of the catalog.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	genres := r.cache.Genres()

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(genres)))
	for _, genre := range genres {
		r.writePlain("• %s\n", genre)
	}
	return nil
}

// FavoritesAdd marks a track as favorite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	track, ok := r.cache.Track(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	r.cache.SetFavorite(id, true)
	r.writePlainln("✓ Added favorite: %s - %s", track.Artist, track.Title)
	return nil
}

// FavoritesRemove unmarks a favorite track.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	r.cache.SetFavorite(id, false)
	r.writePlainln("✓ Removed favorite: %s", id)
	return nil
}

// FavoritesList prints the sorted favorite track ids.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	favorites := r.cache.Favorites()

	if cmd.Bool("json") {
		return r.writeJSON(favorites, true)
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(favorites)))
	for _, id := range favorites {
		if track, ok := r.cache.Track(id); ok {
			r.writePlain("• %s - %s (%s)\n", track.Artist, track.Title, id)
		} else {
			r.writePlain("• %s\n", id)
		}
	}
	return nil
}

// Browse lists the children of a media id, defaulting to the tree root.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	mediaID := cmd.StringArg("media-id")
	if mediaID == "" {
		mediaID = browse.MediaIDRoot
	}

	nodes, err := r.tree.Children(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("failed to browse %s: %w", mediaID, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(nodes, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Children of %s (%d)", mediaID, len(nodes)))
	for _, node := range nodes {
		marker := "▸"
		if node.Playable {
			marker = "♪"
		}
		r.writePlain("%s %s (%s)\n", marker, node.Title, node.MediaID)
	}
	return nil
}
