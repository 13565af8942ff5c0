// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the catalog:
//  1. [LoadingView] : Sync the catalog from the backing library
//  2. [BrowseView] : Navigate the media hierarchy (all songs, playlists, genres)
//  3. [DetailView] : Inspect a single track and toggle its favorite flag
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Catalog loads and tree lookups run as tea commands so the interface never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
