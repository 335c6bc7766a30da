package srs

import (
	"errors"
	"time"

	"github.com/recitehq/recite-api/internal/domain"
)

// ErrNilState is returned when Next is called without a state.
var ErrNilState = errors.New("review state cannot be nil")

// Service defines the interface for scheduling operations. It is a pure
// computation layer: no I/O, no clock access beyond the caller-supplied now.
type Service interface {
	// Next computes the scheduling state that follows from applying a
	// rating to the given state at the given instant.
	Next(
		state *domain.ReviewState,
		rating domain.Rating,
		now time.Time,
	) (*domain.ReviewState, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Next implements the Service interface.
func (s *defaultService) Next(
	state *domain.ReviewState,
	rating domain.Rating,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !rating.Valid() {
		return nil, domain.ErrInvalidRating
	}

	return computeNext(state, rating, now, s.params), nil
}
