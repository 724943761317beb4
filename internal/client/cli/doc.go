// Package cli provides the interactive snoozer terminal client.
//
// It wires configuration, the session store, the HTTP API client and the
// reconciler, and runs a REPL whose commands map one to one onto reconciler
// actions. Regions are drawn by TerminalPainter.
//
// Key features:
//   - Login / Signup / Logout, with the session resumed on the next start
//   - Browse all stories, paging with "more" or "scroll"
//   - Favorite toggling, favorites and own-stories views
//   - Submit and edit stories
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
