// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// MockService is a configurable test double for [services.Service].
//
// The zero value serves an empty library. Populate Tracks and Playlists to
// back the sync stream and lookup methods, or set SyncErr to make a sync
// terminate with that error after delivering no items.
type MockService struct {
	Tracks    []models.Track
	Playlists []models.Playlist
	SyncErr   error
	SyncCalls int
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockService) SyncTracks(ctx context.Context) (<-chan models.Track, <-chan error) {
	m.SyncCalls++
	items := make(chan models.Track)
	errc := make(chan error, 1)
	go func() {
		defer close(items)
		if m.SyncErr != nil {
			errc <- m.SyncErr
			return
		}
		for _, track := range m.Tracks {
			select {
			case items <- track:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- nil
	}()
	return items, errc
}

func (m *MockService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.Playlists, nil
}

func (m *MockService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	for _, playlist := range m.Playlists {
		if playlist.ID == playlistID {
			return &playlist, nil
		}
	}
	return nil, shared.ErrPlaylistNotFound
}

func (m *MockService) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	for _, track := range m.Tracks {
		if track.ID == trackID {
			return &track, nil
		}
	}
	return nil, shared.ErrTrackNotFound
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
