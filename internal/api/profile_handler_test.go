package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/mocks"
	"github.com/bahasabuddy/api/internal/store"
)

func TestGetProfileHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("returns the profile with derived level fields", func(t *testing.T) {
		xpService := &mocks.MockXPService{
			Profile: &domain.Profile{ID: userID, DisplayName: "Andi", XPTotal: 1250, CurrentStreak: 3},
		}
		handler := NewProfileHandler(xpService, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		handler.GetProfile(rr, authedRequest(http.MethodGet, "/api/profile", userID, nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 1250, resp.XPTotal)
		assert.Equal(t, 3, resp.Level)
		assert.Equal(t, "Learner", resp.LevelTitle)
		assert.InDelta(t, 50.0, resp.LevelProgress, 0.01)
	})

	t.Run("unknown profile yields not found", func(t *testing.T) {
		xpService := &mocks.MockXPService{Err: store.ErrProfileNotFound}
		handler := NewProfileHandler(xpService, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		handler.GetProfile(rr, authedRequest(http.MethodGet, "/api/profile", userID, nil, nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing user yields unauthorized", func(t *testing.T) {
		handler := NewProfileHandler(&mocks.MockXPService{}, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		handler.GetProfile(rr, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAwardXPHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("awards manual XP", func(t *testing.T) {
		xpService := &mocks.MockXPService{
			AwardXPFn: func(ctx context.Context, gotUser uuid.UUID, amount int, source string, sourceID *uuid.UUID, description string) (*domain.Profile, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, 25, amount)
				assert.Equal(t, domain.XPSourceManual, source)
				return &domain.Profile{ID: userID, XPTotal: 125}, nil
			},
		}
		handler := NewProfileHandler(xpService, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/profile/xp", userID, nil,
			map[string]interface{}{"amount": 25, "source": "manual", "description": "tutor bonus"})
		handler.AwardXP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp ProfileResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 125, resp.XPTotal)
	})

	t.Run("unknown source yields bad request", func(t *testing.T) {
		handler := NewProfileHandler(&mocks.MockXPService{}, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/profile/xp", userID, nil,
			map[string]interface{}{"amount": 25, "source": "cheating"})
		handler.AwardXP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing amount yields bad request", func(t *testing.T) {
		handler := NewProfileHandler(&mocks.MockXPService{}, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/profile/xp", userID, nil,
			map[string]interface{}{"source": "manual"})
		handler.AwardXP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGoalHandlers(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	goal := &domain.DailyGoal{
		UserID:        userID,
		GoalDate:      today,
		LessonsTarget: 1,
		CardsTarget:   10,
		XPTarget:      50,
	}

	t.Run("get today's goals", func(t *testing.T) {
		goalService := &mocks.MockDailyGoalService{Goal: goal}
		handler := NewProfileHandler(&mocks.MockXPService{}, goalService, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		handler.GetTodayGoals(rr, authedRequest(http.MethodGet, "/api/goals/today", userID, nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var got domain.DailyGoal
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 10, got.CardsTarget)
	})

	t.Run("update today's targets", func(t *testing.T) {
		goalService := &mocks.MockDailyGoalService{
			UpdateTargetsFn: func(ctx context.Context, _ uuid.UUID, now time.Time, targets domain.GoalTargets) (*domain.DailyGoal, error) {
				assert.Equal(t, 2, targets.Lessons)
				assert.Equal(t, 20, targets.Cards)
				updated := *goal
				updated.LessonsTarget = targets.Lessons
				updated.CardsTarget = targets.Cards
				updated.ChatMinutesTarget = targets.ChatMinutes
				updated.XPTarget = targets.XP
				return &updated, nil
			},
		}
		handler := NewProfileHandler(&mocks.MockXPService{}, goalService, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "/api/goals/today", userID, nil,
			map[string]int{"lessons": 2, "cards": 20, "chat_minutes": 5, "xp": 100})
		handler.UpdateTodayGoals(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got domain.DailyGoal
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, 20, got.CardsTarget)
	})

	t.Run("negative target yields bad request", func(t *testing.T) {
		handler := NewProfileHandler(&mocks.MockXPService{}, &mocks.MockDailyGoalService{}, mocks.NewMockAchievementStore(), testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "/api/goals/today", userID, nil,
			map[string]int{"lessons": -1, "cards": 10, "chat_minutes": 5, "xp": 50})
		handler.UpdateTodayGoals(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetAchievementsHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	achievementStore := mocks.NewMockAchievementStore()
	first := domain.Achievement{ID: uuid.New(), Name: "First Steps", RequirementType: domain.RequirementXPTotal, RequirementValue: 100}
	second := domain.Achievement{ID: uuid.New(), Name: "Week Warrior", RequirementType: domain.RequirementStreakDays, RequirementValue: 7}
	achievementStore.Achievements = []domain.Achievement{first, second}

	_, err := achievementStore.Award(context.Background(), userID, first.ID)
	require.NoError(t, err)

	handler := NewProfileHandler(&mocks.MockXPService{}, &mocks.MockDailyGoalService{}, achievementStore, testLogger())

	rr := httptest.NewRecorder()
	handler.GetAchievements(rr, authedRequest(http.MethodGet, "/api/achievements", userID, nil, nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp AchievementsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Achievements, 2)
	require.Len(t, resp.Earned, 1)
	assert.Equal(t, first.ID, resp.Earned[0].AchievementID)
}
