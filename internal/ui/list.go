package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/playx/internal/browse"
)

var _ list.Item = nodeItem{}

// nodeItem wraps [browse.Node] to implement [list.Item].
type nodeItem struct {
	node browse.Node
}

func (i nodeItem) FilterValue() string { return i.node.Title }
func (i nodeItem) Title() string       { return i.node.Title }
func (i nodeItem) Description() string {
	if i.node.Subtitle != "" {
		return i.node.Subtitle
	}
	if i.node.Playable {
		return "track"
	}
	return "browse"
}
