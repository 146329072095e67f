package progress

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/domain/srs"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/mocks"
	"github.com/bahasabuddy/api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	svc          ProgressService
	cardProgress *mocks.MockCardProgressStore
	catalog      *mocks.MockCatalogStore
	xpService    *mocks.MockXPService
	goalService  *mocks.MockDailyGoalService
	emitter      *mocks.MockEventEmitter
	card         *domain.Card
	userID       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cardProgress := mocks.NewMockCardProgressStore()
	catalog := mocks.NewMockCatalogStore()
	xpService := &mocks.MockXPService{Profile: &domain.Profile{ID: uuid.New(), XPTotal: 100}}
	goalService := &mocks.MockDailyGoalService{Goal: &domain.DailyGoal{CardsCompleted: 1}}
	emitter := &mocks.MockEventEmitter{}

	card := &domain.Card{ID: uuid.New(), IndonesianText: "selamat pagi", EnglishTranslation: "good morning"}
	catalog.Cards[card.ID] = card

	svc := NewProgressService(
		cardProgress,
		catalog,
		srs.NewDefaultService(),
		xpService,
		goalService,
		emitter,
		5,
		20,
		testLogger(),
	)

	return &fixture{
		svc:          svc,
		cardProgress: cardProgress,
		catalog:      catalog,
		xpService:    xpService,
		goalService:  goalService,
		emitter:      emitter,
		card:         card,
		userID:       uuid.New(),
	}
}

func TestGetReviewQueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns due cards", func(t *testing.T) {
		f := newFixture(t)
		f.cardProgress.DueCards = []domain.Card{*f.card}

		cards, err := f.svc.GetReviewQueue(ctx, f.userID, uuid.Nil, 0)
		require.NoError(t, err)
		assert.Len(t, cards, 1)
	})

	t.Run("empty queue reports no cards due", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetReviewQueue(ctx, f.userID, uuid.Nil, 10)
		assert.ErrorIs(t, err, ErrNoCardsDue)
	})

	t.Run("category filter narrows the queue", func(t *testing.T) {
		f := newFixture(t)
		foodID := uuid.New()
		foodCard := *f.card
		foodCard.ID = uuid.New()
		foodCard.CategoryID = &foodID
		f.cardProgress.DueCards = []domain.Card{*f.card, foodCard}

		cards, err := f.svc.GetReviewQueue(ctx, f.userID, foodID, 0)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, foodCard.ID, cards[0].ID)
	})

	t.Run("limit is capped at the batch size", func(t *testing.T) {
		f := newFixture(t)
		var requested int
		f.cardProgress.ListDueCardsFn = func(ctx context.Context, userID, categoryID uuid.UUID, now time.Time, limit int) ([]domain.Card, error) {
			requested = limit
			return []domain.Card{*f.card}, nil
		}

		_, err := f.svc.GetReviewQueue(ctx, f.userID, uuid.Nil, 500)
		require.NoError(t, err)
		assert.Equal(t, 20, requested)
	})
}

func TestRecordCardReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first review creates and schedules progress", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now)
		require.NoError(t, err)

		require.NotNil(t, result.Progress)
		assert.Equal(t, 1, result.Progress.MasteryLevel)
		assert.Equal(t, 1, result.Progress.IntervalDays)
		assert.Equal(t, now.AddDate(0, 0, 1), result.Progress.NextReview)

		require.Len(t, f.cardProgress.UpsertCalls, 1)
		assert.Equal(t, []int{5}, f.xpService.AwardXPCalls)
		require.Len(t, f.goalService.RecordActivityCalls, 1)
		assert.Equal(t, 1, f.goalService.RecordActivityCalls[0].CardsCompleted)
		assert.Equal(t, 5, f.goalService.RecordActivityCalls[0].XPEarned)

		assert.Equal(t, 5, result.XPAwarded)
		assert.NotNil(t, result.Profile)
		assert.NotNil(t, result.Goal)

		assert.Len(t, f.emitter.EventsOfType(events.EventCardReviewed), 1)
	})

	t.Run("invalid quality fails before any write", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 9, now)
		assert.ErrorIs(t, err, srs.ErrBadQuality)
		assert.Empty(t, f.cardProgress.UpsertCalls)
		assert.Empty(t, f.xpService.AwardXPCalls)
	})

	t.Run("unknown card fails before any write", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RecordCardReview(ctx, f.userID, uuid.New(), 4, now)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
		assert.Empty(t, f.cardProgress.UpsertCalls)
	})

	t.Run("reward failure still returns the committed review", func(t *testing.T) {
		f := newFixture(t)
		f.xpService.Err = errors.New("ledger down")
		f.xpService.Profile = nil

		result, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRewardFailed)

		// The scheduling write happened and the result carries it.
		require.NotNil(t, result)
		require.NotNil(t, result.Progress)
		assert.Len(t, f.cardProgress.UpsertCalls, 1)
		assert.Zero(t, result.XPAwarded)
	})

	t.Run("repeat reviews climb the interval ladder", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Progress.IntervalDays)

		second, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 6, second.Progress.IntervalDays)
	})

	t.Run("progress index is built from the store once per learner", func(t *testing.T) {
		f := newFixture(t)

		listCalls := 0
		f.cardProgress.ListByUserFn = func(ctx context.Context, userID uuid.UUID) ([]domain.CardProgress, error) {
			listCalls++
			return nil, nil
		}

		_, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now)
		require.NoError(t, err)
		_, err = f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now.AddDate(0, 0, 1))
		require.NoError(t, err)

		assert.Equal(t, 1, listCalls)
	})

	t.Run("failed write leaves the progress index untouched", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now)
		require.NoError(t, err)
		require.Equal(t, 1, first.Progress.IntervalDays)

		f.cardProgress.UpsertError = errors.New("connection reset")
		_, err = f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now.AddDate(0, 0, 1))
		require.Error(t, err)

		// The retry schedules from the last persisted state, not from the
		// rejected write.
		f.cardProgress.UpsertError = nil
		retry, err := f.svc.RecordCardReview(ctx, f.userID, f.card.ID, 4, now.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, 6, retry.Progress.IntervalDays)
	})
}

func TestRecordCardReviewOutcome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("correct maps to a passing quality", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.svc.RecordCardReviewOutcome(ctx, f.userID, f.card.ID, true, now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Progress.MasteryLevel)
		assert.Equal(t, 1, result.Progress.TimesCorrect)
	})

	t.Run("incorrect maps to a failing quality", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.svc.RecordCardReviewOutcome(ctx, f.userID, f.card.ID, false, now)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Progress.MasteryLevel)
		assert.Equal(t, 1, result.Progress.TimesIncorrect)
		assert.Equal(t, 1, result.Progress.IntervalDays)

		// A failed review only reschedules; no XP, no goal credit.
		assert.Empty(t, f.xpService.AwardXPCalls)
		assert.Empty(t, f.goalService.RecordActivityCalls)
		assert.Zero(t, result.XPAwarded)
	})
}

func TestGetCategoryProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reports mastery standing", func(t *testing.T) {
		f := newFixture(t)
		categoryID := uuid.New()
		f.catalog.Categories[categoryID] = &domain.Category{ID: categoryID, Name: "Food"}
		f.catalog.CountCardsByCategoryFn = func(ctx context.Context, id uuid.UUID) (int, error) {
			return 20, nil
		}
		f.cardProgress.MasteredCount = 5

		summary, err := f.svc.GetCategoryProgress(ctx, f.userID, categoryID)
		require.NoError(t, err)
		assert.Equal(t, 20, summary.TotalCards)
		assert.Equal(t, 5, summary.MasteredCards)
		assert.Equal(t, 25, summary.ProgressPercent)
	})

	t.Run("unknown category reports not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetCategoryProgress(ctx, f.userID, uuid.New())
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})

	t.Run("card counts are cached across lookups", func(t *testing.T) {
		f := newFixture(t)
		categoryID := uuid.New()
		f.catalog.Categories[categoryID] = &domain.Category{ID: categoryID}

		countCalls := 0
		f.catalog.CountCardsByCategoryFn = func(ctx context.Context, id uuid.UUID) (int, error) {
			countCalls++
			return 10, nil
		}

		_, err := f.svc.GetCategoryProgress(ctx, f.userID, categoryID)
		require.NoError(t, err)
		_, err = f.svc.GetCategoryProgress(ctx, f.userID, categoryID)
		require.NoError(t, err)
		assert.Equal(t, 1, countCalls)
	})
}
