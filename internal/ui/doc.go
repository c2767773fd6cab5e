// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing rankings:
//  1. [CategoryListView] : Pick one of the four favorite categories
//  2. [RankingView] : Browse that category's top-N entries
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Ranking reads run as [tea.Cmd] functions so the interface never
// blocks on the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
