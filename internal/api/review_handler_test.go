package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahasabuddy/api/internal/api/shared"
	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/service/progress"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProgressService implements progress.ProgressService for handler tests
type mockProgressService struct {
	GetReviewQueueFn          func(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]domain.Card, error)
	RecordCardReviewFn        func(ctx context.Context, userID, cardID uuid.UUID, quality int, now time.Time) (*progress.ReviewResult, error)
	RecordCardReviewOutcomeFn func(ctx context.Context, userID, cardID uuid.UUID, correct bool, now time.Time) (*progress.ReviewResult, error)
	GetCategoryProgressFn     func(ctx context.Context, userID, categoryID uuid.UUID) (*progress.CategorySummary, error)
}

func (m *mockProgressService) GetReviewQueue(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	limit int,
) ([]domain.Card, error) {
	return m.GetReviewQueueFn(ctx, userID, categoryID, limit)
}

func (m *mockProgressService) RecordCardReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
	now time.Time,
) (*progress.ReviewResult, error) {
	return m.RecordCardReviewFn(ctx, userID, cardID, quality, now)
}

func (m *mockProgressService) RecordCardReviewOutcome(
	ctx context.Context,
	userID, cardID uuid.UUID,
	correct bool,
	now time.Time,
) (*progress.ReviewResult, error) {
	return m.RecordCardReviewOutcomeFn(ctx, userID, cardID, correct, now)
}

func (m *mockProgressService) GetCategoryProgress(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (*progress.CategorySummary, error) {
	return m.GetCategoryProgressFn(ctx, userID, categoryID)
}

// authedRequest builds a request carrying an authenticated user and, when id
// is non-nil, an {id} URL parameter.
func authedRequest(method, path string, userID uuid.UUID, id *uuid.UUID, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)

	if id != nil {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", id.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}

	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to an otherwise bare request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetReviewQueueHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("returns due cards", func(t *testing.T) {
		svc := &mockProgressService{
			GetReviewQueueFn: func(ctx context.Context, gotUser, gotCategory uuid.UUID, limit int) ([]domain.Card, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, uuid.Nil, gotCategory)
				return []domain.Card{{ID: uuid.New(), IndonesianText: "terima kasih"}}, nil
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		handler.GetReviewQueue(rr, authedRequest(http.MethodGet, "/api/cards/review", userID, nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)

		var cards []domain.Card
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cards))
		assert.Len(t, cards, 1)
	})

	t.Run("category filter is passed through", func(t *testing.T) {
		categoryID := uuid.New()
		svc := &mockProgressService{
			GetReviewQueueFn: func(ctx context.Context, _, gotCategory uuid.UUID, limit int) ([]domain.Card, error) {
				assert.Equal(t, categoryID, gotCategory)
				return []domain.Card{{ID: uuid.New(), CategoryID: &categoryID}}, nil
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		handler.GetReviewQueue(rr, authedRequest(http.MethodGet,
			"/api/cards/review?category_id="+categoryID.String(), userID, nil, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("malformed category filter yields bad request", func(t *testing.T) {
		handler := NewReviewHandler(&mockProgressService{}, testLogger())

		rr := httptest.NewRecorder()
		handler.GetReviewQueue(rr, authedRequest(http.MethodGet,
			"/api/cards/review?category_id=not-a-uuid", userID, nil, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty queue yields no content", func(t *testing.T) {
		svc := &mockProgressService{
			GetReviewQueueFn: func(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]domain.Card, error) {
				return nil, progress.ErrNoCardsDue
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		handler.GetReviewQueue(rr, authedRequest(http.MethodGet, "/api/cards/review", userID, nil, nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.Bytes())
	})

	t.Run("missing user yields unauthorized", func(t *testing.T) {
		handler := NewReviewHandler(&mockProgressService{}, testLogger())

		rr := httptest.NewRecorder()
		handler.GetReviewQueue(rr, httptest.NewRequest(http.MethodGet, "/api/cards/review", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestSubmitReviewHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	cardID := uuid.New()

	okResult := &progress.ReviewResult{
		Progress:  &domain.CardProgress{UserID: userID, CardID: cardID, MasteryLevel: 1},
		XPAwarded: 5,
	}

	t.Run("quality review", func(t *testing.T) {
		svc := &mockProgressService{
			RecordCardReviewFn: func(ctx context.Context, gotUser, gotCard uuid.UUID, quality int, now time.Time) (*progress.ReviewResult, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, cardID, gotCard)
				assert.Equal(t, 4, quality)
				return okResult, nil
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/cards/"+cardID.String()+"/review",
			userID, &cardID, map[string]int{"quality": 4})
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result progress.ReviewResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, 5, result.XPAwarded)
	})

	t.Run("binary outcome review", func(t *testing.T) {
		svc := &mockProgressService{
			RecordCardReviewOutcomeFn: func(ctx context.Context, _, _ uuid.UUID, correct bool, now time.Time) (*progress.ReviewResult, error) {
				assert.False(t, correct)
				return okResult, nil
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/cards/"+cardID.String()+"/review",
			userID, &cardID, map[string]bool{"correct": false})
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("neither quality nor correct yields bad request", func(t *testing.T) {
		handler := NewReviewHandler(&mockProgressService{}, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/cards/"+cardID.String()+"/review",
			userID, &cardID, map[string]string{})
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("out of range quality yields bad request", func(t *testing.T) {
		handler := NewReviewHandler(&mockProgressService{}, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/cards/"+cardID.String()+"/review",
			userID, &cardID, map[string]int{"quality": 6})
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid card id yields bad request", func(t *testing.T) {
		handler := NewReviewHandler(&mockProgressService{}, testLogger())

		rr := httptest.NewRecorder()
		req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/cards/not-a-uuid/review", nil), "id", "not-a-uuid")
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("degraded rewards still serve the result", func(t *testing.T) {
		svc := &mockProgressService{
			RecordCardReviewFn: func(ctx context.Context, _, _ uuid.UUID, quality int, now time.Time) (*progress.ReviewResult, error) {
				return okResult, fmt.Errorf("%w: xp award: ledger down", progress.ErrRewardFailed)
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/cards/"+cardID.String()+"/review",
			userID, &cardID, map[string]int{"quality": 4})
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result progress.ReviewResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		require.NotNil(t, result.Progress)
	})

	t.Run("service failure yields internal error", func(t *testing.T) {
		svc := &mockProgressService{
			RecordCardReviewFn: func(ctx context.Context, _, _ uuid.UUID, quality int, now time.Time) (*progress.ReviewResult, error) {
				return nil, errors.New("db down")
			},
		}
		handler := NewReviewHandler(svc, testLogger())

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/cards/"+cardID.String()+"/review",
			userID, &cardID, map[string]int{"quality": 4})
		handler.SubmitReview(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Error, "db down")
	})
}

func TestGetCategoryProgressHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	categoryID := uuid.New()

	svc := &mockProgressService{
		GetCategoryProgressFn: func(ctx context.Context, _, gotCategory uuid.UUID) (*progress.CategorySummary, error) {
			assert.Equal(t, categoryID, gotCategory)
			return &progress.CategorySummary{
				CategoryID:      categoryID,
				TotalCards:      20,
				MasteredCards:   5,
				ProgressPercent: 25,
			}, nil
		},
	}
	handler := NewReviewHandler(svc, testLogger())

	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/categories/"+categoryID.String()+"/progress",
		userID, &categoryID, nil)
	handler.GetCategoryProgress(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var summary progress.CategorySummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 25, summary.ProgressPercent)
}
