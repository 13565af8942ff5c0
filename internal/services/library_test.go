package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

func collectTracks(t *testing.T, items <-chan models.Track, errc <-chan error) ([]models.Track, error) {
	t.Helper()

	var tracks []models.Track
	for tr := range items {
		tracks = append(tracks, tr)
	}

	select {
	case err := <-errc:
		return tracks, err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for terminal error")
		return nil, nil
	}
}

func TestLibraryService(t *testing.T) {
	t.Run("NewLibraryService", func(t *testing.T) {
		t.Run("creates service with default URL", func(t *testing.T) {
			if svc := NewLibraryService("", 0, nil); svc == nil {
				t.Fatal("expected service to be created")
			} else if svc.baseURL != defaultLibraryBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultLibraryBaseURL, svc.baseURL)
			}
		})

		t.Run("creates service with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if svc := NewLibraryService(customURL, 0, nil); svc.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, svc.baseURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewLibraryService("", 0, nil); svc.Name() != "Library" {
			t.Errorf("expected name to be 'Library', got %s", svc.Name())
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		ctx := context.Background()

		t.Run("authenticates with api_token", func(t *testing.T) {
			svc := NewLibraryService("", 0, nil)
			credentials := map[string]string{"api_token": "secret"}
			if err := svc.Authenticate(ctx, credentials); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.token == nil || svc.token.AccessToken != "secret" {
				t.Error("expected token to be stored")
			}
		})

		t.Run("fails without api_token", func(t *testing.T) {
			svc := NewLibraryService("", 0, nil)
			err := svc.Authenticate(ctx, map[string]string{})
			if err == nil {
				t.Fatal("expected error for missing api_token")
			}
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("SyncTracks", func(t *testing.T) {
		t.Run("streams the full track set then completes", func(t *testing.T) {
			payload := []map[string]any{
				{"id": "t1", "song": "Les Misérables", "artists": "Victor Hugo", "genre": "Literature", "url": "http://cdn/t1.mp3", "cover_image": "http://cdn/t1.jpg"},
				{"id": "t2", "song": "Walden", "artists": "Henry Thoreau", "genre": "Essay", "url": "http://cdn/t2.mp3"},
			}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/library/tracks" {
					t.Errorf("expected path /api/library/tracks, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(payload)
			}))
			defer server.Close()

			svc := NewLibraryService(server.URL, 0, nil)
			items, errc := svc.SyncTracks(context.Background())

			tracks, err := collectTracks(t, items, errc)
			if err != nil {
				t.Fatalf("expected stream to complete, got %v", err)
			}
			if len(tracks) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(tracks))
			}
			if tracks[0].ID != "t1" || tracks[0].Title != "Les Misérables" || tracks[0].Artist != "Victor Hugo" {
				t.Errorf("unexpected first track: %+v", tracks[0])
			}
			if tracks[0].AudioURL != "http://cdn/t1.mp3" || tracks[0].CoverImageURL != "http://cdn/t1.jpg" {
				t.Errorf("wire URLs not mapped: %+v", tracks[0])
			}
		})

		t.Run("terminates with error on server failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer server.Close()

			svc := NewLibraryService(server.URL, 0, nil)
			items, errc := svc.SyncTracks(context.Background())

			tracks, err := collectTracks(t, items, errc)
			if err == nil {
				t.Fatal("expected stream to terminate with error")
			}
			if !errors.Is(err, shared.ErrSyncFailed) {
				t.Errorf("expected ErrSyncFailed, got %v", err)
			}
			if len(tracks) != 0 {
				t.Errorf("expected no tracks on failure, got %d", len(tracks))
			}
		})

		t.Run("cancelled context aborts delivery", func(t *testing.T) {
			payload := []map[string]any{
				{"id": "t1", "song": "One", "artists": "A"},
				{"id": "t2", "song": "Two", "artists": "B"},
				{"id": "t3", "song": "Three", "artists": "C"},
			}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(payload)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			svc := NewLibraryService(server.URL, 0, nil)
			items, errc := svc.SyncTracks(ctx)

			// Take one item, then cancel mid-stream.
			<-items
			cancel()

			for range items {
			}
			select {
			case err := <-errc:
				if err != nil && !errors.Is(err, context.Canceled) {
					t.Errorf("expected context.Canceled or clean completion, got %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for terminal error")
			}
		})
	})

	t.Run("GetPlaylists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/library/playlists" {
				t.Errorf("expected path /api/library/playlists, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "p1", "name": "Morning Mix", "mediaids": []string{"t1", "t2"}},
			})
		}))
		defer server.Close()

		svc := NewLibraryService(server.URL, 0, nil)
		playlists, err := svc.GetPlaylists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 1 || playlists[0].ID != "p1" || len(playlists[0].TrackIDs) != 2 {
			t.Errorf("unexpected playlists: %+v", playlists)
		}
	})

	t.Run("GetPlaylist", func(t *testing.T) {
		t.Run("resolves a playlist by id", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/library/playlists/p1" {
					t.Errorf("expected path /api/library/playlists/p1, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"id": "p1", "name": "Morning Mix", "description": "Wake up", "mediaids": []string{"t1"},
				})
			}))
			defer server.Close()

			svc := NewLibraryService(server.URL, 0, nil)
			playlist, err := svc.GetPlaylist(context.Background(), "p1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlist.Name != "Morning Mix" || len(playlist.TrackIDs) != 1 {
				t.Errorf("unexpected playlist: %+v", playlist)
			}
		})

		t.Run("missing playlist yields ErrPlaylistNotFound", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			}))
			defer server.Close()

			svc := NewLibraryService(server.URL, 0, nil)
			if _, err := svc.GetPlaylist(context.Background(), "nope"); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})
	})

	t.Run("GetTrack", func(t *testing.T) {
		t.Run("resolves a track by id", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/library/tracks/t1" {
					t.Errorf("expected path /api/library/tracks/t1, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(map[string]any{"id": "t1", "song": "Walden", "artists": "Henry Thoreau"})
			}))
			defer server.Close()

			svc := NewLibraryService(server.URL, 0, nil)
			track, err := svc.GetTrack(context.Background(), "t1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if track.Title != "Walden" {
				t.Errorf("unexpected track: %+v", track)
			}
		})

		t.Run("missing track yields ErrTrackNotFound", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			}))
			defer server.Close()

			svc := NewLibraryService(server.URL, 0, nil)
			if _, err := svc.GetTrack(context.Background(), "nope"); !errors.Is(err, shared.ErrTrackNotFound) {
				t.Errorf("expected ErrTrackNotFound, got %v", err)
			}
		})
	})

	t.Run("rate limiter is respected", func(t *testing.T) {
		hits := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			json.NewEncoder(w).Encode(map[string]any{"id": "t1", "song": "S", "artists": "A"})
		}))
		defer server.Close()

		// 100 req/s: two sequential requests should both pass quickly.
		svc := NewLibraryService(server.URL, 100, nil)
		ctx := context.Background()
		if _, err := svc.GetTrack(ctx, "t1"); err != nil {
			t.Fatalf("first request failed: %v", err)
		}
		if _, err := svc.GetTrack(ctx, "t1"); err != nil {
			t.Fatalf("second request failed: %v", err)
		}
		if hits != 2 {
			t.Errorf("expected 2 requests, got %d", hits)
		}
	})
}
