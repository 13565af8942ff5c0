package ui

import (
	"github.com/desertthunder/playx/internal/browse"
)

// catalogLoadedMsg reports the outcome of a catalog sync.
type catalogLoadedMsg struct {
	success bool
}

// childrenFetchedMsg carries the resolved children of a media id.
type childrenFetchedMsg struct {
	mediaID string
	title   string
	nodes   []browse.Node
	err     error
}
