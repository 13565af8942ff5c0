// Package services defines the Service interface for the remote music library
// API and its HTTP implementation.
//
// The library service is the catalog's sync source: it produces the full track
// set as an asynchronous stream, resolves playlists to track ids, and serves
// point lookups. The catalog treats it as opaque: retries, timeouts, and
// ordering validation are the caller's policy, not the service's.
package services
