// Package catalog implements the in-memory music catalog cache.
//
// The core abstraction is [Cache], a concurrent map of track metadata keyed by
// track id, populated asynchronously from a [Source] and queried by the CLI,
// the HTTP server, and the TUI. The cache moves through three lifecycle
// states: [NotReady] → [Loading] → [Ready]. Bulk queries serve real data only
// once the cache is Ready; before that they return empty listings rather than
// partial ones. A failed sync drops the cache back to NotReady so that a
// retry is a plain second call to [Cache.Load].
package catalog
