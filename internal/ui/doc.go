// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-step workflow for a migration run:
//  1. [ConfirmView] : Review the remote site and entity kinds before starting
//  2. [TransferView] : Monitor per-page progress as collections stream in
//  3. [ResultView] : Display created/referenced/conflicted counts per kind
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the transfer engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (enter, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
