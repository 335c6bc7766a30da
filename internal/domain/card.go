package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardGroupIDEmpty is returned when a card's group ID is empty or nil.
	ErrCardGroupIDEmpty = errors.New("card group ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front side is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardPositionNegative is returned when a card's display position is negative.
	ErrCardPositionNegative = errors.New("card position cannot be negative")
)

// Card represents a flashcard belonging to a group within a project.
// Card content management (creation, editing, deletion) is handled by the
// content CRUD layer; this core only reads cards when assembling a
// practice session.
type Card struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Position  int       `json:"position"` // static display order within the group
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.GroupID == uuid.Nil {
		return ErrCardGroupIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Position < 0 {
		return ErrCardPositionNegative
	}

	return nil
}
