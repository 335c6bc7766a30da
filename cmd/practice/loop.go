package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/session"
)

// ratingKeys maps single-letter input to ratings.
var ratingKeys = map[string]domain.Rating{
	"a": domain.RatingAgain,
	"h": domain.RatingHard,
	"g": domain.RatingGood,
	"e": domain.RatingEasy,
}

// runLoop drives the interactive session: show the front, flip on enter,
// then accept a rating, undo, or quit. It returns when the queue is
// exhausted, input ends, or the user quits.
func runLoop(ctx context.Context, m *session.Manager, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "Session opened: %d queued, %d due, %d new in group\n",
		m.Queue().Len(), m.DueCount(), m.NewCount())

	for {
		card, ok := m.Queue().Current()
		if !ok {
			fmt.Fprintf(out, "Done. %d reviewed.\n", m.Queue().Reviewed)
			return nil
		}

		fmt.Fprintf(out, "\n[%d left] %s\n", m.Queue().Len(), card.Front)
		if !m.Queue().Revealed {
			fmt.Fprint(out, "(enter to flip, u undo, q quit) > ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			switch strings.TrimSpace(scanner.Text()) {
			case "q":
				return nil
			case "u":
				handleUndo(ctx, m, out)
				continue
			default:
				if err := m.Flip(ctx); err != nil {
					return err
				}
			}
		}

		fmt.Fprintf(out, "%s\n", card.Back)
		fmt.Fprint(out, "(a again, h hard, g good, e easy, u undo, q quit) > ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "q":
			return nil
		case "u":
			handleUndo(ctx, m, out)
			continue
		}

		rating, ok := ratingKeys[input]
		if !ok {
			fmt.Fprintf(out, "unrecognized input %q\n", input)
			continue
		}

		if err := m.Rate(ctx, rating); err != nil {
			// A failed write leaves the card current; the user can retry.
			if errors.Is(err, domain.ErrInvalidRating) {
				fmt.Fprintf(out, "invalid rating %q\n", input)
				continue
			}
			fmt.Fprintf(out, "rating failed, try again: %v\n", err)
			continue
		}
	}
}

func handleUndo(ctx context.Context, m *session.Manager, out io.Writer) {
	if m.Undo(ctx) {
		fmt.Fprintln(out, "undid last rating (the stored review state keeps the write)")
	} else {
		fmt.Fprintln(out, "nothing to undo")
	}
}
