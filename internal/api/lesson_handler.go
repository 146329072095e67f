package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/api/shared"
	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/service"
	"github.com/bahasabuddy/api/internal/store"
)

// LessonHandler handles lesson progress HTTP requests
type LessonHandler struct {
	lessonService service.LessonService
	logger        *slog.Logger
}

// NewLessonHandler creates a new LessonHandler
func NewLessonHandler(
	lessonService service.LessonService,
	logger *slog.Logger,
) *LessonHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LessonHandler")
	}

	return &LessonHandler{
		lessonService: lessonService,
		logger:        logger.With(slog.String("component", "lesson_handler")),
	}
}

// UpdatePhrasesRequest represents the request body for reporting phrase progress.
type UpdatePhrasesRequest struct {
	PhrasesCompleted int `json:"phrases_completed" validate:"gte=0"`
}

// CompleteLessonRequest represents the request body for completing a lesson.
type CompleteLessonRequest struct {
	Score int `json:"score" validate:"gte=0,lte=100"`
}

// LessonProgressResponse wraps a progress record with its display percentage.
type LessonProgressResponse struct {
	*domain.LessonProgress
	CompletionPercent int `json:"completion_percent"`
}

// lessonIDFromPath parses the {id} URL parameter.
func lessonIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// userIDFromContext pulls the authenticated user from the request context.
func userIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// StartLesson handles POST /lessons/{id}/start requests
func (h *LessonHandler) StartLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	lessonID, err := lessonIDFromPath(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	progress, err := h.lessonService.StartLesson(r.Context(), userID, lessonID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to start lesson"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// UpdatePhrases handles PATCH /lessons/{id}/phrases requests
func (h *LessonHandler) UpdatePhrases(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	lessonID, err := lessonIDFromPath(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdatePhrasesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	progress, err := h.lessonService.UpdatePhrases(r.Context(), userID, lessonID, req.PhrasesCompleted)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to update lesson progress"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// CompleteLesson handles POST /lessons/{id}/complete requests
// Completion is idempotent: repeating the call returns the stored record.
func (h *LessonHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	lessonID, err := lessonIDFromPath(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CompleteLessonRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	progress, awarded, err := h.lessonService.CompleteLesson(r.Context(), userID, lessonID, req.Score)

	// The completion is committed even when reward processing failed; serve
	// the stored record and let the log carry the failure.
	if err != nil && errors.Is(err, service.ErrRewardFailed) {
		log.Warn("lesson completed with degraded rewards",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusOK, progress)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to complete lesson"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	if !awarded {
		log.Debug("lesson completion replayed",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// GetLessonProgress handles GET /lessons/{id}/progress requests
func (h *LessonHandler) GetLessonProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	lessonID, err := lessonIDFromPath(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	progress, lesson, err := h.lessonService.GetProgress(r.Context(), userID, lessonID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load lesson progress"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LessonProgressResponse{
		LessonProgress:    progress,
		CompletionPercent: progress.CompletionPercent(lesson.PhraseCount),
	})
}

// GetNextLesson handles GET /lessons/next requests
// It returns the first lesson the learner has not completed, or 204 when the
// whole catalog is done.
func (h *LessonHandler) GetNextLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	lesson, err := h.lessonService.NextLesson(r.Context(), userID)
	if errors.Is(err, store.ErrLessonNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to find next lesson"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}
