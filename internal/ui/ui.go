package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playx/internal/browse"
	"github.com/desertthunder/playx/internal/catalog"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	BrowseView
	DetailView
)

// level is one step of the navigation stack.
type level struct {
	mediaID string
	title   string
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	cache    *catalog.Cache
	tree     *browse.Tree
	width    int
	height   int
	nodeList list.Model
	stack    []level
	selected *models.Track
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, cache *catalog.Cache, tree *browse.Tree) *Model {
	return &Model{
		ctx:   ctx,
		view:  LoadingView,
		cache: cache,
		tree:  tree,
		stack: []level{{mediaID: browse.MediaIDRoot, title: "Library"}},
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init kicks off the catalog sync.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.nodeList.Width() == 0 {
			m.nodeList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case catalogLoadedMsg:
		if !msg.success {
			m.err = fmt.Errorf("%w: catalog sync failed", shared.ErrSyncFailed)
			return m, nil
		}
		return m, m.fetchChildren(m.current())

	case childrenFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.nodes))
		for i, node := range msg.nodes {
			items[i] = nodeItem{node: node}
		}
		m.nodeList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.nodeList.Title = msg.title
		m.nodeList.SetSize(m.width-4, m.height-8)
		m.view = BrowseView
		return m, nil
	}

	if m.view == BrowseView {
		var cmd tea.Cmd
		m.nodeList, cmd = m.nodeList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case BrowseView:
		return m.renderBrowse()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) current() level {
	return m.stack[len(m.stack)-1]
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			return m, m.fetchChildren(m.current())
		}
		return m, nil
	case "enter":
		selected := m.nodeList.SelectedItem()
		if selected == nil {
			return m, nil
		}
		if item, ok := selected.(nodeItem); ok {
			if item.node.Playable {
				return m.openDetail(item.node)
			}
			next := level{mediaID: item.node.MediaID, title: item.node.Title}
			m.stack = append(m.stack, next)
			return m, m.fetchChildren(next)
		}
	}

	var cmd tea.Cmd
	m.nodeList, cmd = m.nodeList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = BrowseView
		m.selected = nil
		return m, nil
	case "f":
		if m.selected != nil {
			m.cache.SetFavorite(m.selected.ID, !m.cache.IsFavorite(m.selected.ID))
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) openDetail(node browse.Node) (tea.Model, tea.Cmd) {
	id := browse.ExtractMusicID(node.MediaID)
	track, ok := m.cache.Track(id)
	if !ok {
		m.err = fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
		return m, nil
	}
	m.selected = &track
	m.view = DetailView
	return m, nil
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		done := make(chan bool, 1)
		m.cache.Load(func(success bool) { done <- success })
		select {
		case success := <-done:
			return catalogLoadedMsg{success: success}
		case <-m.ctx.Done():
			return catalogLoadedMsg{success: false}
		}
	}
}

func (m *Model) fetchChildren(lv level) tea.Cmd {
	return func() tea.Msg {
		nodes, err := m.tree.Children(m.ctx, lv.mediaID)
		return childrenFetchedMsg{mediaID: lv.mediaID, title: lv.title, nodes: nodes, err: err}
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("Syncing catalog")
	return fmt.Sprintf("%s\n\nFetching tracks from the library...\n\n%s",
		title, styles.help.Render("q to quit"))
}

func (m *Model) renderBrowse() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.nodeList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("No track selected\n\nPress esc to go back")
	}

	track := m.selected
	title := styles.title.Render(track.Title)

	favorite := "no"
	if m.cache.IsFavorite(track.ID) {
		favorite = styles.ok.Render("yes")
	}

	info := fmt.Sprintf(
		"\nArtist: %s\nAlbum: %s\nGenre: %s\nDuration: %s\nFavorite: %s\n",
		track.Artist, track.Album, track.Genre,
		shared.FormatDuration(track.Duration), favorite,
	)

	helpKeys := []key.Binding{m.keys.favorite, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
