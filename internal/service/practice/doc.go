// Package practice implements the server-side practice operations:
// assembling session queues over a card group and applying ratings through
// the spaced repetition scheduler within a transaction. It also provides
// the adapter that binds these operations to a single user for the session
// engine.
package practice
