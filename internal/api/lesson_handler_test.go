package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/service"
	"github.com/bahasabuddy/api/internal/store"
)

// mockLessonService implements service.LessonService for handler tests
type mockLessonService struct {
	StartLessonFn    func(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)
	UpdatePhrasesFn  func(ctx context.Context, userID, lessonID uuid.UUID, phrasesCompleted int) (*domain.LessonProgress, error)
	CompleteLessonFn func(ctx context.Context, userID, lessonID uuid.UUID, score int) (*domain.LessonProgress, bool, error)
	GetProgressFn    func(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, *domain.Lesson, error)
	NextLessonFn     func(ctx context.Context, userID uuid.UUID) (*domain.Lesson, error)
}

func (m *mockLessonService) StartLesson(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.LessonProgress, error) {
	return m.StartLessonFn(ctx, userID, lessonID)
}

func (m *mockLessonService) UpdatePhrases(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	phrasesCompleted int,
) (*domain.LessonProgress, error) {
	return m.UpdatePhrasesFn(ctx, userID, lessonID, phrasesCompleted)
}

func (m *mockLessonService) CompleteLesson(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	score int,
) (*domain.LessonProgress, bool, error) {
	return m.CompleteLessonFn(ctx, userID, lessonID, score)
}

func (m *mockLessonService) GetProgress(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.LessonProgress, *domain.Lesson, error) {
	return m.GetProgressFn(ctx, userID, lessonID)
}

func (m *mockLessonService) NextLesson(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Lesson, error) {
	return m.NextLessonFn(ctx, userID)
}

func TestStartLessonHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	lessonID := uuid.New()

	t.Run("starts a lesson", func(t *testing.T) {
		svc := &mockLessonService{
			StartLessonFn: func(ctx context.Context, gotUser, gotLesson uuid.UUID) (*domain.LessonProgress, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, lessonID, gotLesson)
				return &domain.LessonProgress{
					UserID:   userID,
					LessonID: lessonID,
					Status:   domain.LessonInProgress,
				}, nil
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/lessons/"+lessonID.String()+"/start",
			userID, &lessonID, nil)
		handler.StartLesson(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var progress domain.LessonProgress
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
		assert.Equal(t, domain.LessonInProgress, progress.Status)
	})

	t.Run("unknown lesson yields not found", func(t *testing.T) {
		svc := &mockLessonService{
			StartLessonFn: func(ctx context.Context, _, _ uuid.UUID) (*domain.LessonProgress, error) {
				return nil, store.ErrLessonNotFound
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/lessons/"+lessonID.String()+"/start",
			userID, &lessonID, nil)
		handler.StartLesson(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid lesson id yields bad request", func(t *testing.T) {
		handler := NewLessonHandler(&mockLessonService{}, testLogger())

		rr := httptest.NewRecorder()
		badID := "nope"
		req := httptest.NewRequest(http.MethodPost, "/api/lessons/"+badID+"/start", nil)
		req = withURLParam(req, "id", badID)
		handler.StartLesson(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdatePhrasesHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	lessonID := uuid.New()

	t.Run("records phrase progress", func(t *testing.T) {
		svc := &mockLessonService{
			UpdatePhrasesFn: func(ctx context.Context, _, _ uuid.UUID, phrasesCompleted int) (*domain.LessonProgress, error) {
				assert.Equal(t, 7, phrasesCompleted)
				return &domain.LessonProgress{
					UserID:           userID,
					LessonID:         lessonID,
					Status:           domain.LessonInProgress,
					PhrasesCompleted: 7,
				}, nil
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "/api/lessons/"+lessonID.String()+"/phrases",
			userID, &lessonID, map[string]int{"phrases_completed": 7})
		handler.UpdatePhrases(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("negative count yields bad request", func(t *testing.T) {
		handler := NewLessonHandler(&mockLessonService{}, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "/api/lessons/"+lessonID.String()+"/phrases",
			userID, &lessonID, map[string]int{"phrases_completed": -1})
		handler.UpdatePhrases(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCompleteLessonHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	lessonID := uuid.New()

	completed := func(xpEarned int) *domain.LessonProgress {
		now := time.Now().UTC()
		return &domain.LessonProgress{
			UserID:      userID,
			LessonID:    lessonID,
			Status:      domain.LessonCompleted,
			Score:       80,
			XPEarned:    xpEarned,
			CompletedAt: &now,
		}
	}

	t.Run("completes with a score", func(t *testing.T) {
		svc := &mockLessonService{
			CompleteLessonFn: func(ctx context.Context, _, _ uuid.UUID, score int) (*domain.LessonProgress, bool, error) {
				assert.Equal(t, 80, score)
				return completed(40), true, nil
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/lessons/"+lessonID.String()+"/complete",
			userID, &lessonID, map[string]int{"score": 80})
		handler.CompleteLesson(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var progress domain.LessonProgress
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
		assert.Equal(t, domain.LessonCompleted, progress.Status)
		assert.Equal(t, 40, progress.XPEarned)
	})

	t.Run("replay serves the stored record", func(t *testing.T) {
		svc := &mockLessonService{
			CompleteLessonFn: func(ctx context.Context, _, _ uuid.UUID, score int) (*domain.LessonProgress, bool, error) {
				return completed(40), false, nil
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/lessons/"+lessonID.String()+"/complete",
			userID, &lessonID, map[string]int{"score": 80})
		handler.CompleteLesson(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("degraded rewards still serve the stored record", func(t *testing.T) {
		svc := &mockLessonService{
			CompleteLessonFn: func(ctx context.Context, _, _ uuid.UUID, score int) (*domain.LessonProgress, bool, error) {
				return completed(40), true, fmt.Errorf("%w: xp award: ledger down", service.ErrRewardFailed)
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/lessons/"+lessonID.String()+"/complete",
			userID, &lessonID, map[string]int{"score": 80})
		handler.CompleteLesson(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var progress domain.LessonProgress
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
		assert.Equal(t, domain.LessonCompleted, progress.Status)
	})

	t.Run("score above 100 yields bad request", func(t *testing.T) {
		handler := NewLessonHandler(&mockLessonService{}, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/lessons/"+lessonID.String()+"/complete",
			userID, &lessonID, map[string]int{"score": 101})
		handler.CompleteLesson(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetLessonProgressHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	lessonID := uuid.New()

	svc := &mockLessonService{
		GetProgressFn: func(ctx context.Context, _, _ uuid.UUID) (*domain.LessonProgress, *domain.Lesson, error) {
			return &domain.LessonProgress{
					UserID:           userID,
					LessonID:         lessonID,
					Status:           domain.LessonInProgress,
					PhrasesCompleted: 3,
				},
				&domain.Lesson{ID: lessonID, Title: "Greetings", PhraseCount: 10},
				nil
		},
	}
	handler := NewLessonHandler(svc, testLogger())

	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/lessons/"+lessonID.String()+"/progress",
		userID, &lessonID, nil)
	handler.GetLessonProgress(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp LessonProgressResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.PhrasesCompleted)
	assert.Equal(t, 30, resp.CompletionPercent)
}

func TestGetNextLessonHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("returns the next unfinished lesson", func(t *testing.T) {
		lesson := &domain.Lesson{ID: uuid.New(), Title: "Ordering Food"}
		svc := &mockLessonService{
			NextLessonFn: func(ctx context.Context, _ uuid.UUID) (*domain.Lesson, error) {
				return lesson, nil
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		handler.GetNextLesson(rr, authedRequest(http.MethodGet, "/api/lessons/next", userID, nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var got domain.Lesson
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, lesson.ID, got.ID)
	})

	t.Run("finished catalog yields no content", func(t *testing.T) {
		svc := &mockLessonService{
			NextLessonFn: func(ctx context.Context, _ uuid.UUID) (*domain.Lesson, error) {
				return nil, store.ErrLessonNotFound
			},
		}
		handler := NewLessonHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		handler.GetNextLesson(rr, authedRequest(http.MethodGet, "/api/lessons/next", userID, nil, nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
