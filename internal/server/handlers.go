package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/browse"
	"github.com/desertthunder/playx/internal/catalog"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// CatalogHandler serves the catalog's query and sync endpoints.
// Implements the Handler interface for registration with a Router.
type CatalogHandler struct {
	cache  *catalog.Cache
	tree   *browse.Tree
	logger *log.Logger
}

// NewCatalogHandler creates a handler over the given cache and browse tree.
func NewCatalogHandler(cache *catalog.Cache, tree *browse.Tree, logger *log.Logger) *CatalogHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogHandler{cache: cache, tree: tree, logger: logger.With("component", "server")}
}

// Routes returns the ServeMux patterns this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{
		"GET /api/status",
		"POST /api/sync",
		"GET /api/tracks",
		"GET /api/tracks/{id}",
		"GET /api/search",
		"GET /api/genres",
		"GET /api/browse",
		"GET /api/favorites",
		"PUT /api/favorites/{id}",
		"DELETE /api/favorites/{id}",
	}
}

// ServeHTTP dispatches to the endpoint implementations.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == "/api/status":
		h.status(w, r)
	case r.Method == http.MethodPost && path == "/api/sync":
		h.sync(w, r)
	case r.Method == http.MethodGet && path == "/api/tracks":
		h.listTracks(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/tracks/"):
		h.getTrack(w, r)
	case r.Method == http.MethodGet && path == "/api/search":
		h.search(w, r)
	case r.Method == http.MethodGet && path == "/api/genres":
		h.genres(w, r)
	case r.Method == http.MethodGet && path == "/api/browse":
		h.browse(w, r)
	case r.Method == http.MethodGet && path == "/api/favorites":
		h.listFavorites(w, r)
	case strings.HasPrefix(path, "/api/favorites/"):
		h.setFavorite(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CatalogHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *CatalogHandler) status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"state": h.cache.State().String(),
		"ready": h.cache.IsReady(),
		"size":  h.cache.Size(),
	})
}

func (h *CatalogHandler) sync(w http.ResponseWriter, r *http.Request) {
	if h.cache.IsReady() {
		h.writeJSON(w, http.StatusOK, map[string]string{"state": h.cache.State().String()})
		return
	}

	h.cache.Load(func(success bool) {
		if success {
			h.logger.Info("catalog sync completed")
		} else {
			h.logger.Warn("catalog sync failed")
		}
	})
	h.writeJSON(w, http.StatusAccepted, map[string]string{"state": h.cache.State().String()})
}

func (h *CatalogHandler) listTracks(w http.ResponseWriter, r *http.Request) {
	tracks := h.cache.AllTracks()
	if r.URL.Query().Get("shuffle") == "true" {
		tracks = h.cache.ShuffledTracks()
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	h.writeJSON(w, http.StatusOK, tracks)
}

func (h *CatalogHandler) getTrack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	track, ok := h.cache.Track(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "track not found")
		return
	}
	h.writeJSON(w, http.StatusOK, track)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	fieldName := r.URL.Query().Get("field")
	if fieldName == "" {
		fieldName = "title"
	}

	field, err := catalog.ParseField(fieldName)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.cache.Search(field, query)
	if results == nil {
		results = []models.Track{}
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) genres(w http.ResponseWriter, r *http.Request) {
	genres := h.cache.Genres()
	if genres == nil {
		genres = []string{}
	}
	h.writeJSON(w, http.StatusOK, genres)
}

func (h *CatalogHandler) browse(w http.ResponseWriter, r *http.Request) {
	mediaID := r.URL.Query().Get("media_id")
	if mediaID == "" {
		mediaID = browse.MediaIDRoot
	}

	nodes, err := h.tree.Children(r.Context(), mediaID)
	if err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			h.writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		h.logger.Error("browse failed", "media_id", mediaID, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to resolve children")
		return
	}
	h.writeJSON(w, http.StatusOK, nodes)
}

func (h *CatalogHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favorites := h.cache.Favorites()
	if favorites == nil {
		favorites = []string{}
	}
	h.writeJSON(w, http.StatusOK, favorites)
}

func (h *CatalogHandler) setFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.cache.Track(id); !ok {
		h.writeError(w, http.StatusNotFound, "track not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.cache.SetFavorite(id, true)
	case http.MethodDelete:
		h.cache.SetFavorite(id, false)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"id": id, "favorite": h.cache.IsFavorite(id)})
}
