package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/catalog"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
)

// Node is a single entry in the browse tree, either a browseable category or
// a playable track.
type Node struct {
	MediaID  string `json:"media_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
	Playable bool   `json:"playable"`
}

// Tree resolves media ids to their children using the catalog cache for
// track data and the library service for playlist membership.
type Tree struct {
	cache  *catalog.Cache
	svc    services.Service
	logger *log.Logger
}

// NewTree creates a browse tree over the given cache and service.
func NewTree(cache *catalog.Cache, svc services.Service, logger *log.Logger) *Tree {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Tree{cache: cache, svc: svc, logger: logger.With("component", "browse")}
}

// Children returns the child nodes of the given media id. Playable ids and
// unknown categories yield an empty list rather than an error, so a client
// can probe the tree without special-casing leaves.
func (t *Tree) Children(ctx context.Context, mediaID string) ([]Node, error) {
	if !IsBrowseable(mediaID) {
		return []Node{}, nil
	}

	t.logger.Debug("resolving children", "media_id", mediaID)

	switch mediaID {
	case MediaIDRoot:
		return t.rootNodes(), nil
	case MediaIDAll:
		return t.trackNodes(t.cache.AllTracks(), MediaIDAll)
	case MediaIDPlaylist:
		return t.playlistNodes(ctx)
	case MediaIDByGenre:
		return t.genreNodes()
	}

	hierarchy := Hierarchy(mediaID)
	if len(hierarchy) == 2 {
		switch hierarchy[0] {
		case MediaIDPlaylist:
			return t.playlistTrackNodes(ctx, hierarchy[1])
		case MediaIDByGenre:
			return t.trackNodes(t.cache.Search(catalog.FieldGenre, hierarchy[1]), MediaIDByGenre)
		}
	}

	t.logger.Warn("unknown media id", "media_id", mediaID)
	return []Node{}, nil
}

func (t *Tree) rootNodes() []Node {
	return []Node{
		{MediaID: MediaIDAll, Title: "All songs", Subtitle: "Songs by title"},
		{MediaID: MediaIDPlaylist, Title: "Playlists", Subtitle: "Songs by playlist"},
		{MediaID: MediaIDByGenre, Title: "Genres", Subtitle: "Songs by genre"},
	}
}

func (t *Tree) trackNodes(tracks []models.Track, category string) ([]Node, error) {
	nodes := make([]Node, 0, len(tracks))
	for _, track := range tracks {
		node, err := t.trackNode(track, category)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (t *Tree) trackNode(track models.Track, category string) (Node, error) {
	var (
		mediaID string
		err     error
	)

	// The leaf id carries the category path it was reached through, so a
	// later play request can rebuild the surrounding queue.
	switch category {
	case MediaIDByGenre:
		mediaID, err = CreateMediaID(track.ID, MediaIDByGenre, track.Genre)
	case MediaIDPlaylist:
		mediaID, err = CreateMediaID(track.ID, MediaIDPlaylist, "0")
	default:
		mediaID, err = CreateMediaID(track.ID, MediaIDAll, MediaIDAll)
	}
	if err != nil {
		return Node{}, err
	}

	return Node{
		MediaID:  mediaID,
		Title:    track.Title,
		Subtitle: track.Artist,
		IconURL:  track.CoverImageURL,
		Playable: true,
	}, nil
}

func (t *Tree) playlistNodes(ctx context.Context) ([]Node, error) {
	playlists, err := t.svc.GetPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}

	nodes := make([]Node, 0, len(playlists))
	for _, playlist := range playlists {
		mediaID, err := CreateMediaID("", MediaIDPlaylist, playlist.ID)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{
			MediaID:  mediaID,
			Title:    playlist.Name,
			Subtitle: playlist.Description,
		})
	}
	return nodes, nil
}

func (t *Tree) genreNodes() ([]Node, error) {
	genres := t.cache.Genres()
	nodes := make([]Node, 0, len(genres))
	for _, genre := range genres {
		mediaID, err := CreateMediaID("", MediaIDByGenre, genre)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{MediaID: mediaID, Title: genre, Subtitle: genre})
	}
	return nodes, nil
}

func (t *Tree) playlistTrackNodes(ctx context.Context, playlistID string) ([]Node, error) {
	playlist, err := t.svc.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("resolving playlist %s: %w", playlistID, err)
	}

	nodes := make([]Node, 0, len(playlist.TrackIDs))
	for _, trackID := range playlist.TrackIDs {
		track, ok := t.cache.Track(trackID)
		if !ok {
			// Playlists can reference tracks the catalog has not synced
			// yet; fall back to a direct lookup.
			fetched, err := t.svc.GetTrack(ctx, trackID)
			if err != nil {
				if errors.Is(err, shared.ErrTrackNotFound) {
					t.logger.Warn("playlist references missing track", "playlist", playlistID, "track", trackID)
					continue
				}
				return nil, fmt.Errorf("resolving playlist track %s: %w", trackID, err)
			}
			track = *fetched
		}

		node, err := t.trackNode(track, MediaIDPlaylist)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
