package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/recitehq/recite-api/internal/service/practice"
	"github.com/recitehq/recite-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"card not found", practice.ErrCardNotFound, http.StatusNotFound},
		{"state not found", practice.ErrStateNotFound, http.StatusNotFound},
		{"store card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"invalid rating", practice.ErrInvalidRating, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("context: %w", practice.ErrCardNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MapErrorToStatusCode(tc.err); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"card not found", practice.ErrCardNotFound, "Card not found"},
		{"state not found", practice.ErrStateNotFound, "Review state not found"},
		{"invalid rating", practice.ErrInvalidRating, "Invalid rating"},
		{"submit context", errors.New("failed to submit rating: pq: oops"), "Failed to submit rating"},
		{"start context", errors.New("failed to start session: pq: oops"), "Failed to start session"},
		{"unknown", errors.New("something with a password=hunter2 inside"), "An unexpected error occurred"},
		{"nil", nil, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := GetSafeErrorMessage(tc.err); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
