// Package domain holds the core entities of the scheduling model: cards,
// their per-user review state, ratings, and the review audit log. Nothing
// here knows about storage, transport, or presentation.
package domain
