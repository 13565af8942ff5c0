// package services defines interface Service for interacting with the music library HTTP API
package services

import (
	"context"

	"github.com/desertthunder/playx/internal/models"
)

// Service defines the interface for a remote music library that can stream
// the full track set and resolve playlists and individual tracks.
type Service interface {
	// Authenticate performs token authentication with the library service.
	// Returns an error if credentials are missing or rejected.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SyncTracks streams the library's full track set. The items channel is
	// closed when the set is complete; the error channel then yields the
	// terminal error, or nil on success.
	SyncTracks(ctx context.Context) (<-chan models.Track, <-chan error)

	// GetPlaylists retrieves all playlists known to the library.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// GetTrack retrieves a single track by ID.
	GetTrack(ctx context.Context, trackID string) (*models.Track, error)

	// Name returns the name of the service (e.g., "Library")
	Name() string
}
