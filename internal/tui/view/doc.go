// Package view renders the parts of the TUI that surround the element tree:
// the loading screen, the bootstrap failure screen, and the status line.
//
// Each function takes a plain state struct and a style set and returns a
// string, so views can be tested without a running Bubbletea program.
package view
