// Package session implements the practice-session engine: building the
// ordered card queue for a group, reordering it as ratings come in,
// single-level undo, and persisting in-progress sessions to a local
// snapshot store so a reload does not lose progress.
//
// The package is deliberately I/O-free except for the snapshot store; the
// remote boundaries (card source, rating write-through) are injected as
// small interfaces on the Manager.
package session
