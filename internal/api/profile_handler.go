package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/api/shared"
	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/service"
	"github.com/bahasabuddy/api/internal/store"
)

// ProfileHandler handles profile, XP, goal, and achievement HTTP requests
type ProfileHandler struct {
	xpService        service.XPService
	goalService      service.DailyGoalService
	achievementStore store.AchievementStore
	logger           *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	xpService service.XPService,
	goalService service.DailyGoalService,
	achievementStore store.AchievementStore,
	logger *slog.Logger,
) *ProfileHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProfileHandler")
	}

	return &ProfileHandler{
		xpService:        xpService,
		goalService:      goalService,
		achievementStore: achievementStore,
		logger:           logger.With(slog.String("component", "profile_handler")),
	}
}

// ProfileResponse augments the stored profile with derived level fields.
type ProfileResponse struct {
	*domain.Profile
	Level         int     `json:"level"`
	LevelTitle    string  `json:"level_title"`
	LevelProgress float64 `json:"level_progress"`
}

// AwardXPRequest represents the request body for a manual XP grant.
type AwardXPRequest struct {
	Amount      int        `json:"amount" validate:"required,gt=0"`
	Source      string     `json:"source" validate:"required,oneof=card_review lesson_complete achievement manual"`
	SourceID    *uuid.UUID `json:"source_id,omitempty"`
	Description string     `json:"description,omitempty" validate:"max=500"`
}

// UpdateGoalsRequest represents the request body for changing today's targets.
type UpdateGoalsRequest struct {
	Lessons     int `json:"lessons" validate:"gte=0"`
	Cards       int `json:"cards" validate:"gte=0"`
	ChatMinutes int `json:"chat_minutes" validate:"gte=0"`
	XP          int `json:"xp" validate:"gte=0"`
}

// AchievementsResponse pairs the full catalog with the learner's earned set.
type AchievementsResponse struct {
	Achievements []domain.Achievement     `json:"achievements"`
	Earned       []domain.UserAchievement `json:"earned"`
}

func profileToResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		Profile:       profile,
		Level:         profile.Level(),
		LevelTitle:    domain.LevelTitle(profile.Level()),
		LevelProgress: domain.LevelProgress(profile.XPTotal),
	}
}

// GetProfile handles GET /profile requests
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	profile, err := h.xpService.GetProfile(r.Context(), userID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load profile"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// AwardXP handles POST /profile/xp requests
// It appends an XP transaction and returns the profile with updated totals.
func (h *ProfileHandler) AwardXP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req AwardXPRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	profile, err := h.xpService.AwardXP(
		r.Context(), userID, req.Amount, req.Source, req.SourceID, req.Description,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to award XP"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// GetTodayGoals handles GET /goals/today requests
func (h *ProfileHandler) GetTodayGoals(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	goal, err := h.goalService.GetToday(r.Context(), userID, time.Now().UTC())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load daily goals"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// UpdateTodayGoals handles PATCH /goals/today requests
func (h *ProfileHandler) UpdateTodayGoals(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateGoalsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	goal, err := h.goalService.UpdateTargets(r.Context(), userID, time.Now().UTC(), domain.GoalTargets{
		Lessons:     req.Lessons,
		Cards:       req.Cards,
		ChatMinutes: req.ChatMinutes,
		XP:          req.XP,
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to update daily goals"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}

// GetAchievements handles GET /achievements requests
func (h *ProfileHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	achievements, err := h.achievementStore.ListAll(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load achievements", err)
		return
	}

	earned, err := h.achievementStore.ListEarned(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load achievements", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AchievementsResponse{
		Achievements: achievements,
		Earned:       earned,
	})
}
