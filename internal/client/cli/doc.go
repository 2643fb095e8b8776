// Package cli provides the interactive handlekeeper command-line client.
//
// It wires configuration, the HTTP API client and a REPL. A background
// watcher probes /health and flips the prompt between online and offline.
//
// Commands: register, login, whoami, newproject, projects, profile, link,
// logout, help, exit.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
