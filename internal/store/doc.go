// Package store defines the persistence interfaces consumed by the core:
// the card content source, the per-(user, card) review-state store, and the
// append-only review log. Implementations live under platform packages.
package store
