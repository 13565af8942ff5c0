package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/playx/internal/catalog"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
	tu "github.com/desertthunder/playx/internal/testing"
)

func libraryTracks() []models.Track {
	return []models.Track{
		{ID: "t1", Title: "Ode to Joy", Artist: "Beethoven", Genre: "Classical", Duration: 180},
		{ID: "t2", Title: "So What", Artist: "Miles Davis", Genre: "Jazz", Duration: 240},
	}
}

func newTestRunner(t *testing.T, svc *tu.MockService) (*Runner, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Library: svc,
		Output:  output,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			library := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Library:    library,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.library != library {
				t.Error("expected library to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("builds cache and tree from the library service", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Library: &tu.MockService{}})
			if runner.cache == nil {
				t.Error("expected cache to be constructed")
			}
			if runner.tree == nil {
				t.Error("expected tree to be constructed")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("propagates write failures", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("ensureReady", func(t *testing.T) {
		t.Run("loads the catalog once", func(t *testing.T) {
			svc := &tu.MockService{Tracks: libraryTracks()}
			runner, _ := newTestRunner(t, svc)

			if err := runner.ensureReady(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !runner.cache.IsReady() {
				t.Error("expected catalog to be ready")
			}
			if runner.cache.Size() != 2 {
				t.Errorf("expected 2 tracks, got %d", runner.cache.Size())
			}

			// A second call must not trigger another sync.
			if err := runner.ensureReady(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.SyncCalls != 1 {
				t.Errorf("expected 1 sync call, got %d", svc.SyncCalls)
			}
		})

		t.Run("surfaces sync failures", func(t *testing.T) {
			svc := &tu.MockService{SyncErr: shared.ErrServiceUnavailable}
			runner, _ := newTestRunner(t, svc)

			err := runner.ensureReady(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if runner.cache.IsReady() {
				t.Error("expected catalog to stay not ready")
			}
		})

		t.Run("fails without a catalog", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if err := runner.ensureReady(context.Background()); err == nil {
				t.Error("expected error when catalog is not initialized")
			}
		})
	})

	t.Run("buildListing", func(t *testing.T) {
		t.Run("full catalog", func(t *testing.T) {
			svc := &tu.MockService{Tracks: libraryTracks()}
			runner, _ := newTestRunner(t, svc)
			if err := runner.ensureReady(context.Background()); err != nil {
				t.Fatal(err)
			}

			listing, imageURL, err := runner.buildListing(context.Background(), "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if listing.Title != "catalog" || len(listing.Tracks) != 2 {
				t.Errorf("unexpected listing: %+v", listing)
			}
			if imageURL != "" {
				t.Errorf("expected no image URL for catalog export, got %s", imageURL)
			}
		})

		t.Run("playlist resolves through cache", func(t *testing.T) {
			svc := &tu.MockService{
				Tracks:    libraryTracks(),
				Playlists: []models.Playlist{{ID: "p1", Name: "Mix", TrackIDs: []string{"t2"}}},
			}
			runner, _ := newTestRunner(t, svc)
			if err := runner.ensureReady(context.Background()); err != nil {
				t.Fatal(err)
			}

			listing, _, err := runner.buildListing(context.Background(), "p1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if listing.Title != "Mix" || len(listing.Tracks) != 1 || listing.Tracks[0].ID != "t2" {
				t.Errorf("unexpected listing: %+v", listing)
			}
		})

		t.Run("unknown playlist fails", func(t *testing.T) {
			runner, _ := newTestRunner(t, &tu.MockService{})
			if _, _, err := runner.buildListing(context.Background(), "nope"); err == nil {
				t.Error("expected error for unknown playlist")
			}
		})
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		if err := shared.CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "[library]") {
			t.Errorf("expected library section in config, got: %s", content)
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	// Command actions go through the Runner methods directly; wiring them
	// through cli.Command.Run would just re-test flag parsing.
	t.Run("sync output reports size", func(t *testing.T) {
		svc := &tu.MockService{Tracks: libraryTracks()}
		runner, output := newTestRunner(t, svc)

		if err := runner.ensureReady(context.Background()); err != nil {
			t.Fatal(err)
		}
		runner.writePlainln("✓ Catalog synced: %d tracks", runner.cache.Size())

		if !strings.Contains(output.String(), "2 tracks") {
			t.Errorf("expected synced size in output, got %s", output.String())
		}
	})

	t.Run("favorites survive a state round trip", func(t *testing.T) {
		svc := &tu.MockService{Tracks: libraryTracks()}
		runner, _ := newTestRunner(t, svc)
		if err := runner.ensureReady(context.Background()); err != nil {
			t.Fatal(err)
		}

		runner.cache.SetFavorite("t1", true)
		favorites := runner.cache.Favorites()
		if len(favorites) != 1 || favorites[0] != "t1" {
			t.Errorf("unexpected favorites: %v", favorites)
		}
	})

	t.Run("search hits the ready catalog", func(t *testing.T) {
		svc := &tu.MockService{Tracks: libraryTracks()}
		runner, _ := newTestRunner(t, svc)
		if err := runner.ensureReady(context.Background()); err != nil {
			t.Fatal(err)
		}

		field, err := catalog.ParseField("artist")
		if err != nil {
			t.Fatal(err)
		}
		results := runner.cache.Search(field, "miles")
		if len(results) != 1 || results[0].ID != "t2" {
			t.Errorf("unexpected results: %+v", results)
		}
	})
}
