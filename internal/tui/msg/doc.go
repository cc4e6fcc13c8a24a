// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// This package contains the [tea.Msg] types that represent events the TUI can
// receive, such as the outcome of loading the definition document, fetch
// retries reported while loading, and status line expiry, together with the
// command factories that produce them.
package msg
