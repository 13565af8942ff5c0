package browse

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playx/internal/shared"
)

// Reserved media ids addressing the fixed top levels of the tree.
const (
	MediaIDRoot     string = "__ROOT__"
	MediaIDAll      string = "__ALL__"
	MediaIDPlaylist string = "__PLAYLIST__"
	MediaIDByGenre  string = "__BY_GENRE__"
)

const (
	categorySeparator rune = '/'
	leafSeparator     rune = '|'
)

// CreateMediaID builds a hierarchy-aware media id from a track id and the
// category path leading to it. With an empty musicID the result addresses a
// browseable category node; otherwise it addresses a playable leaf.
//
// Category segments must not contain the separator characters.
func CreateMediaID(musicID string, categories ...string) (string, error) {
	var sb strings.Builder
	for i, category := range categories {
		if !validCategory(category) {
			return "", fmt.Errorf("%w: media id category %q", shared.ErrInvalidArgument, category)
		}
		if i > 0 {
			sb.WriteRune(categorySeparator)
		}
		sb.WriteString(category)
	}

	if musicID != "" {
		sb.WriteRune(leafSeparator)
		sb.WriteString(musicID)
	}
	return sb.String(), nil
}

func validCategory(category string) bool {
	return category != "" && !strings.ContainsRune(category, categorySeparator) &&
		!strings.ContainsRune(category, leafSeparator)
}

// IsBrowseable reports whether a media id addresses a category node rather
// than a playable leaf.
func IsBrowseable(mediaID string) bool {
	return !strings.ContainsRune(mediaID, leafSeparator)
}

// ExtractMusicID returns the track id embedded in a playable media id, or an
// empty string when the id is browseable.
func ExtractMusicID(mediaID string) string {
	if i := strings.IndexRune(mediaID, leafSeparator); i >= 0 {
		return mediaID[i+1:]
	}
	return ""
}

// Hierarchy splits the category path of a media id into its segments. The
// leaf portion, if present, is discarded.
func Hierarchy(mediaID string) []string {
	if i := strings.IndexRune(mediaID, leafSeparator); i >= 0 {
		mediaID = mediaID[:i]
	}
	if mediaID == "" {
		return nil
	}
	return strings.Split(mediaID, string(categorySeparator))
}
