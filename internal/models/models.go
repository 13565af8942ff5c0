// package models defines the data model for the playx catalog service
package models

import (
	"fmt"
)

// Track represents one audio item from the remote library.
//
// Treat values as immutable: derived copies (artwork attachment) are produced
// with [Track.WithArtwork] rather than field assignment.
type Track struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Album         string `json:"album,omitempty"`
	Genre         string `json:"genre,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	AudioURL      string `json:"audio_url,omitempty"`
	Duration      int    `json:"duration,omitempty"` // Duration in seconds

	// Raw image bytes attached after a cover fetch; not part of the wire format.
	Artwork []byte `json:"-"`
	Icon    []byte `json:"-"`
}

// Validate checks that the track carries the fields the catalog requires.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track is missing an id")
	}
	if t.Title == "" {
		return fmt.Errorf("track %s is missing a title", t.ID)
	}
	return nil
}

// WithArtwork returns a copy of the track with the full-size artwork and the
// small display icon attached. The receiver is left unchanged.
func (t Track) WithArtwork(art, icon []byte) Track {
	t.Artwork = art
	t.Icon = icon
	return t
}

// HasArtwork reports whether a cover image has been attached.
func (t Track) HasArtwork() bool {
	return len(t.Artwork) > 0
}

// Playlist represents a named, ordered collection of track ids from the library service.
type Playlist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TrackIDs    []string `json:"track_ids"`
}

// Validate checks that the playlist carries an id and a name.
func (p Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist is missing an id")
	}
	if p.Name == "" {
		return fmt.Errorf("playlist %s is missing a name", p.ID)
	}
	return nil
}
