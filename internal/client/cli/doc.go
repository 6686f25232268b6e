// Package cli provides the interactive biblio command-line client.
//
// It wires configuration, the local credential store, the session, the
// request gateway, the route gate and the view controllers, then runs a
// REPL. After every command the router is settled: pending navigation
// commands (including the redirect the gateway issues when the service
// rejects the credential) are applied and the resulting view is rendered.
//
// Key features:
//   - Login / Signup / Logout, with the credential kept across restarts
//   - Home: recommendations, borrowings, reading sessions, statistics
//   - Dashboard: catalog listing, keyword and semantic search, borrowing
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
