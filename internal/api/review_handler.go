package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/api/shared"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/service/progress"
)

// ReviewHandler handles flashcard review HTTP requests
type ReviewHandler struct {
	progressService progress.ProgressService
	logger          *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(
	progressService progress.ProgressService,
	logger *slog.Logger,
) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitReviewRequest represents the request body for recording a card review.
// Either a 0-5 quality score or a binary correct flag must be supplied;
// quality takes precedence when both are present.
type SubmitReviewRequest struct {
	Quality *int  `json:"quality,omitempty" validate:"omitempty,gte=0,lte=5"`
	Correct *bool `json:"correct,omitempty"`
}

// GetReviewQueue handles GET /cards/review requests
// It returns the cards currently due for the authenticated user. An optional
// category_id query parameter restricts the queue to one category.
func (h *ReviewHandler) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	categoryID := uuid.Nil
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		var err error
		categoryID, err = uuid.Parse(raw)
		if err != nil {
			log.Warn("invalid category ID format", slog.String("category_id", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category ID format")
			return
		}
	}

	cards, err := h.progressService.GetReviewQueue(r.Context(), userID, categoryID, 0)
	if errors.Is(err, progress.ErrNoCardsDue) {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load review queue"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// SubmitReview handles POST /cards/{id}/review requests
// It records one review outcome, reschedules the card, and grants rewards.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathCardID := chi.URLParam(r, "id")
	cardID, err := uuid.Parse(pathCardID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", pathCardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	if req.Quality == nil && req.Correct == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Either quality or correct is required")
		return
	}

	now := time.Now().UTC()
	var result *progress.ReviewResult
	if req.Quality != nil {
		result, err = h.progressService.RecordCardReview(r.Context(), userID, cardID, *req.Quality, now)
	} else {
		result, err = h.progressService.RecordCardReviewOutcome(r.Context(), userID, cardID, *req.Correct, now)
	}

	// The review is committed even when reward processing failed; serve the
	// result and let the log carry the failure.
	if err != nil && errors.Is(err, progress.ErrRewardFailed) {
		log.Warn("review recorded with degraded rewards",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusOK, result)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetCategoryProgress handles GET /categories/{id}/progress requests
// It reports the learner's mastery standing in a category.
func (h *ReviewHandler) GetCategoryProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathCategoryID := chi.URLParam(r, "id")
	categoryID, err := uuid.Parse(pathCategoryID)
	if err != nil {
		log.Warn("invalid category ID format", slog.String("category_id", pathCategoryID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	summary, err := h.progressService.GetCategoryProgress(r.Context(), userID, categoryID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load category progress"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
