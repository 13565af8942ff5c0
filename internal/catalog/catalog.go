package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// State is the lifecycle state of the catalog cache.
type State int32

const (
	NotReady State = iota // no sync attempted yet, or the previous sync failed
	Loading               // a sync is in flight
	Ready                 // sync completed, queries serve real data
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "not_ready"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return ""
	}
}

// Field selects which track attribute a search matches against.
type Field int

const (
	FieldTitle Field = iota
	FieldAlbum
	FieldArtist
	FieldGenre
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAlbum:
		return "album"
	case FieldArtist:
		return "artist"
	case FieldGenre:
		return "genre"
	default:
		return ""
	}
}

// ParseField converts a field name (as accepted on the CLI and HTTP surfaces)
// into a [Field].
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return FieldTitle, nil
	case "album":
		return FieldAlbum, nil
	case "artist":
		return FieldArtist, nil
	case "genre":
		return FieldGenre, nil
	default:
		return 0, fmt.Errorf("%w: unknown search field %q", shared.ErrInvalidArgument, s)
	}
}

// value extracts the attribute the field refers to.
func (f Field) value(t models.Track) string {
	switch f {
	case FieldTitle:
		return t.Title
	case FieldAlbum:
		return t.Album
	case FieldArtist:
		return t.Artist
	case FieldGenre:
		return t.Genre
	default:
		return ""
	}
}

// Source produces the full track set as an asynchronous, ordered stream.
//
// The items channel is closed when the set is complete; the error channel then
// yields exactly one value: the terminal error, or nil on success. Cancelling
// the context aborts the stream. The cache treats the source as opaque: it
// does not retry, does not time out, and does not validate duplicate-free
// delivery (a repeated id simply overwrites, last value wins).
type Source interface {
	SyncTracks(ctx context.Context) (<-chan models.Track, <-chan error)
}

// Cache is the in-memory catalog of track metadata.
//
// It is safe for concurrent use: bulk queries take internally consistent
// snapshots even while a load is inserting tracks. Construct one per
// application with [New] and pass it by reference; there is no package-level
// instance.
type Cache struct {
	source Source
	logger *log.Logger

	mu     sync.RWMutex
	tracks map[string]models.Track
	state  State

	// loadMu serializes Load calls; generation identifies the current load so
	// a superseded one stops mutating the catalog.
	loadMu     sync.Mutex
	cancelLoad context.CancelFunc
	generation atomic.Uint64

	favMu     sync.RWMutex
	favorites map[string]struct{}
}

// New creates an empty catalog cache that populates itself from the given source.
func New(source Source, logger *log.Logger) *Cache {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Cache{
		source:    source,
		logger:    shared.WithLogger(logger, "component", "catalog"),
		tracks:    make(map[string]models.Track),
		favorites: make(map[string]struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsReady reports whether the catalog has been fully populated.
func (c *Cache) IsReady() bool {
	return c.State() == Ready
}

// Size returns the number of cached tracks regardless of lifecycle state.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}

// Load pulls the full track set from the source and populates the catalog.
//
// Load never blocks and never fails synchronously. If the catalog is already
// Ready the callback is invoked immediately with true and no work is done.
// Otherwise any in-flight load is cancelled first (at most one load is active
// at a time; the newest call wins) and a fresh sync begins. On completion the
// callback receives true and the cache becomes Ready; on stream error the
// callback receives false, the error is logged, and the cache returns to
// NotReady with whatever partial data it reached still cached. A nil callback
// is allowed.
func (c *Cache) Load(callback func(success bool)) {
	c.loadMu.Lock()

	if c.State() == Ready {
		c.loadMu.Unlock()
		if callback != nil {
			callback(true)
		}
		return
	}

	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelLoad = cancel
	gen := c.generation.Add(1)

	c.mu.Lock()
	if c.state == NotReady {
		c.state = Loading
	}
	c.mu.Unlock()
	c.loadMu.Unlock()

	go c.run(ctx, gen, callback)
}

// run consumes the source stream for one load attempt.
func (c *Cache) run(ctx context.Context, gen uint64, callback func(success bool)) {
	defer func() {
		// Release the context once this attempt is over.
		c.loadMu.Lock()
		if gen == c.generation.Load() && c.cancelLoad != nil {
			c.cancelLoad()
			c.cancelLoad = nil
		}
		c.loadMu.Unlock()
	}()

	items, errc := c.source.SyncTracks(ctx)

	count := 0
	for track := range items {
		if !c.put(gen, track) {
			// Superseded by a newer load; abandon without touching state.
			return
		}
		count++
	}

	err := <-errc

	c.mu.Lock()
	if gen != c.generation.Load() {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = NotReady
		c.mu.Unlock()
		c.logger.Warn("catalog sync failed", "err", err, "cached", count)
		if callback != nil {
			callback(false)
		}
		return
	}
	c.state = Ready
	c.mu.Unlock()
	c.logger.Info("catalog synced", "tracks", count)
	if callback != nil {
		callback(true)
	}
}

// put inserts a track for the given load generation. Returns false when the
// load has been superseded and the insert was discarded.
func (c *Cache) put(gen uint64, track models.Track) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation.Load() {
		return false
	}
	c.tracks[track.ID] = track
	return true
}

// AllTracks returns a snapshot of every cached track, in unspecified order.
// The result is empty unless the catalog is Ready.
func (c *Cache) AllTracks() []models.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != Ready {
		return nil
	}
	out := make([]models.Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		out = append(out, t)
	}
	return out
}

// ShuffledTracks returns a freshly shuffled snapshot of every cached track.
// The result is empty unless the catalog is Ready.
func (c *Cache) ShuffledTracks() []models.Track {
	tracks := c.AllTracks()
	rand.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
	return tracks
}

// Search returns every track whose attribute for the given field contains the
// query, case-insensitively. An empty query matches every track. The result
// is empty unless the catalog is Ready; order is unspecified.
func (c *Cache) Search(field Field, query string) []models.Track {
	q := strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != Ready {
		return nil
	}

	var out []models.Track
	for _, t := range c.tracks {
		if strings.Contains(strings.ToLower(field.value(t)), q) {
			out = append(out, t)
		}
	}
	return out
}

// Genres returns the distinct genres of all cached tracks, sorted. The result
// is empty unless the catalog is Ready.
func (c *Cache) Genres() []string {
	c.mu.RLock()
	if c.state != Ready {
		c.mu.RUnlock()
		return nil
	}
	set := make(map[string]struct{})
	for _, t := range c.tracks {
		if t.Genre != "" {
			set[t.Genre] = struct{}{}
		}
	}
	c.mu.RUnlock()

	genres := make([]string, 0, len(set))
	for g := range set {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// Track looks up a single track by id in O(1).
//
// Unlike the bulk queries, Track serves whatever is currently cached even
// mid-load, so the playback layer can resolve an id the moment it arrives.
func (c *Cache) Track(id string) (models.Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tracks[id]
	return t, ok
}

// UpdateArtwork replaces the metadata for an existing id with a copy carrying
// the two images attached, swapped in atomically.
//
// An unknown id is a caller bug, reported as [shared.ErrInvariantViolated]
// rather than an operational failure.
func (c *Cache) UpdateArtwork(id string, art, icon []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tracks[id]
	if !ok {
		return fmt.Errorf("%w: artwork update for unknown track %q", shared.ErrInvariantViolated, id)
	}
	c.tracks[id] = t.WithArtwork(art, icon)
	return nil
}

// SetFavorite adds or removes an id from the favorite set. The id need not
// reference a cached track; the call always succeeds.
func (c *Cache) SetFavorite(id string, favorite bool) {
	c.favMu.Lock()
	defer c.favMu.Unlock()
	if favorite {
		c.favorites[id] = struct{}{}
	} else {
		delete(c.favorites, id)
	}
}

// IsFavorite reports whether the id is in the favorite set.
func (c *Cache) IsFavorite(id string) bool {
	c.favMu.RLock()
	defer c.favMu.RUnlock()
	_, ok := c.favorites[id]
	return ok
}

// Favorites returns the favorite ids, sorted for stable output.
func (c *Cache) Favorites() []string {
	c.favMu.RLock()
	ids := make([]string, 0, len(c.favorites))
	for id := range c.favorites {
		ids = append(ids, id)
	}
	c.favMu.RUnlock()

	sort.Strings(ids)
	return ids
}
