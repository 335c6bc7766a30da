package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/recitehq/recite-api/internal/api/shared"
	"github.com/recitehq/recite-api/internal/domain"
	"github.com/recitehq/recite-api/internal/platform/logger"
	"github.com/recitehq/recite-api/internal/redact"
	"github.com/recitehq/recite-api/internal/service/practice"
	"github.com/recitehq/recite-api/internal/session"
)

// PracticeHandler handles practice-session HTTP requests
type PracticeHandler struct {
	practiceService practice.PracticeService
	defaultLimit    int
	maxLimit        int
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler. The limits bound the
// session queue length: a request without a limit gets defaultLimit, and no
// request may exceed maxLimit.
func NewPracticeHandler(
	practiceService practice.PracticeService,
	defaultLimit, maxLimit int,
	log *slog.Logger,
) *PracticeHandler {
	if practiceService == nil {
		panic("practiceService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PracticeHandler{
		practiceService: practiceService,
		defaultLimit:    defaultLimit,
		maxLimit:        maxLimit,
		logger:          log.With(slog.String("component", "practice_handler")),
	}
}

// StartSession handles POST /groups/{id}/session requests.
// It assembles the practice queue for the authenticated user over the
// group's cards, creating review states for never-seen cards on the way.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	pathGroupID := chi.URLParam(r, "id")
	groupID, err := uuid.Parse(pathGroupID)
	if err != nil {
		log.Warn("invalid group ID format", slog.String("group_id", pathGroupID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid group ID format")
		return
	}

	// The body is optional: an empty body selects due mode at the default
	// limit.
	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("group_id", groupID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("group_id", groupID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	mode := session.ModeDue
	if req.Mode != "" {
		mode = session.Mode(req.Mode)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.defaultLimit
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}

	start, err := h.practiceService.StartSession(r.Context(), userID, groupID, limit, mode)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to start session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("session started",
		slog.String("user_id", userID.String()),
		slog.String("group_id", groupID.String()),
		slog.Int("queue_len", len(start.Cards)),
		slog.Int("due_count", start.DueCount),
		slog.Int("new_count", start.NewCount))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(start))
}

// SubmitRating handles POST /cards/{id}/rating requests.
// It applies a rating to the card's review state through the scheduler and
// returns the authoritative stored state.
func (h *PracticeHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	pathCardID := chi.URLParam(r, "id")
	cardID, err := uuid.Parse(pathCardID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", pathCardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	var req RatingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", cardID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	state, err := h.practiceService.SubmitRating(
		r.Context(), userID, cardID, domain.Rating(req.Rating))
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit rating"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("rating submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", req.Rating),
		slog.String("state", string(state.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}
