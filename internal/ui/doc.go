// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view browsing workflow:
//  1. [MovieListView] : Search and filter the movie catalog
//  2. [MovieDetailView] : Read a movie's reviews, reveal spoilers, see the provider strip
//  3. [BoardListView] : Browse the community board by tab with numbered pagination
//  4. [BoardDetailView] : Read a post with its comments and same-category rail
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// All fetching goes through the views package, which drops responses that
// lose the race to a newer request.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
