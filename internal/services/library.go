// Music library API implementation of [Service]
//
// Communicates with the playd library server, which owns the source of truth
// for track metadata and playlists.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultLibraryBaseURL string = "http://127.0.0.1:8080"

// libraryTrack mirrors the library server's wire format for a track.
type libraryTrack struct {
	ID         string `json:"id"`
	Song       string `json:"song"`
	Artists    string `json:"artists"`
	Album      string `json:"album"`
	Genre      string `json:"genre"`
	URL        string `json:"url"`
	CoverImage string `json:"cover_image"`
	Duration   int    `json:"duration"`
}

func (t libraryTrack) toTrack() models.Track {
	return models.Track{
		ID:            t.ID,
		Title:         t.Song,
		Artist:        t.Artists,
		Album:         t.Album,
		Genre:         t.Genre,
		AudioURL:      t.URL,
		CoverImageURL: t.CoverImage,
		Duration:      t.Duration,
	}
}

// libraryPlaylist mirrors the library server's wire format for a playlist.
type libraryPlaylist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MediaIDs    []string `json:"mediaids"`
}

func (p libraryPlaylist) toPlaylist() models.Playlist {
	return models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TrackIDs:    p.MediaIDs,
	}
}

// LibraryService implements the [Service] interface against the library HTTP API.
//
// Requests are rate limited with [rate.Limiter] and authenticated with a
// static bearer token via [oauth2].
type LibraryService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	token      *oauth2.Token
}

// NewLibraryService creates a new library service instance.
//
// A rateLimit of zero or less disables client-side throttling.
func NewLibraryService(baseURL string, rateLimit float64, client *http.Client) *LibraryService {
	if baseURL == "" {
		baseURL = defaultLibraryBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), 1)
	}

	return &LibraryService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
	}
}

// Name returns the service name.
func (l *LibraryService) Name() string {
	return "Library"
}

// Authenticate stores a static bearer token for subsequent requests.
//
// Expects credentials["api_token"] to contain the library API token.
func (l *LibraryService) Authenticate(ctx context.Context, credentials map[string]string) error {
	token, ok := credentials["api_token"]
	if !ok || token == "" {
		return fmt.Errorf("%w: api_token", shared.ErrMissingCredentials)
	}

	l.token = &oauth2.Token{AccessToken: token}
	l.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(l.token))
	return nil
}

// doRequest performs a rate-limited GET against the library API and decodes
// the JSON response into result.
func (l *LibraryService) doRequest(ctx context.Context, endpoint string, result any) error {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", errNotFound(endpoint), endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errNotFound maps an endpoint to the sentinel for its resource kind.
func errNotFound(endpoint string) error {
	if strings.HasPrefix(endpoint, "/api/library/playlists") {
		return shared.ErrPlaylistNotFound
	}
	return shared.ErrTrackNotFound
}

// SyncTracks streams the library's full track set.
//
// The whole set is fetched in one request and replayed over the items channel
// as an ordered push sequence; cancelling the context aborts delivery.
func (l *LibraryService) SyncTracks(ctx context.Context) (<-chan models.Track, <-chan error) {
	items := make(chan models.Track)
	errc := make(chan error, 1)

	go func() {
		defer close(items)

		var payload []libraryTrack
		if err := l.doRequest(ctx, "/api/library/tracks", &payload); err != nil {
			errc <- fmt.Errorf("%w: %v", shared.ErrSyncFailed, err)
			return
		}

		for _, raw := range payload {
			select {
			case items <- raw.toTrack():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- nil
	}()

	return items, errc
}

// GetPlaylists retrieves all playlists known to the library.
func (l *LibraryService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var payload []libraryPlaylist
	if err := l.doRequest(ctx, "/api/library/playlists", &payload); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(payload))
	for _, raw := range payload {
		playlists = append(playlists, raw.toPlaylist())
	}
	return playlists, nil
}

// GetPlaylist retrieves a specific playlist by ID.
func (l *LibraryService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var payload libraryPlaylist
	endpoint := fmt.Sprintf("/api/library/playlists/%s", playlistID)
	if err := l.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	playlist := payload.toPlaylist()
	return &playlist, nil
}

// GetTrack retrieves a single track by ID.
func (l *LibraryService) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	var payload libraryTrack
	endpoint := fmt.Sprintf("/api/library/tracks/%s", trackID)
	if err := l.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	track := payload.toTrack()
	return &track, nil
}
