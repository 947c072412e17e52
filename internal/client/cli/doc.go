// Package cli provides the interactive PulseChat terminal client.
//
// It wires configuration, local storage, the REST client, the session store
// and the live transport, and serves a REPL on top of them. Each screen of
// the client (login, register, chat, profile) is a route; commands switch
// routes and act on the screen's view model from internal/client/views.
//
// Key features:
//   - Register / Login / Logout
//   - Roster and two-pane direct messaging over a WebSocket
//   - Profile editing with a draft that survives failed saves
//   - Dismissible notices for backend outcomes
//
// Concurrency: App.Run owns a single event loop. Stdin lines, background
// history fetches and live transport events are delivered to it over
// channels, so view state is only ever touched from that goroutine.
// See App, dispatch and lineFeed for details.
package cli
