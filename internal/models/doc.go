// Package models defines the domain entities shared by the playx catalog service.
//
// The package contains value types only:
//   - [Track] : Immutable song metadata delivered by the remote library service
//   - [Playlist] : A named, ordered collection of track ids
//
// Track values are never mutated in place. Derived copies are produced with
// pure functions such as [Track.WithArtwork], and the catalog cache swaps whole
// values atomically when metadata changes.
package models
