package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/domain/srs"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/service"
	"github.com/bahasabuddy/api/internal/store"
)

// Verify interface compliance at compile time
var _ ProgressService = (*progressServiceImpl)(nil)

// CardReviewedPayload is the event payload for events.EventCardReviewed.
type CardReviewedPayload struct {
	CardID       uuid.UUID `json:"card_id"`
	Quality      int       `json:"quality"`
	MasteryLevel int       `json:"mastery_level"`
	NextReview   time.Time `json:"next_review"`
}

// progressServiceImpl implements the ProgressService interface.
type progressServiceImpl struct {
	cardProgressStore store.CardProgressStore
	catalogStore      store.CatalogStore
	srsService        srs.Service
	xpService         service.XPService
	goalService       service.DailyGoalService
	emitter           events.EventEmitter
	cache             *progressCache
	counts            *categoryCountCache
	xpPerReview       int
	batchSize         int
	logger            *slog.Logger
}

// NewProgressService creates a new ProgressService implementation.
func NewProgressService(
	cardProgressStore store.CardProgressStore,
	catalogStore store.CatalogStore,
	srsService srs.Service,
	xpService service.XPService,
	goalService service.DailyGoalService,
	emitter events.EventEmitter,
	xpPerReview int,
	batchSize int,
	logger *slog.Logger,
) ProgressService {
	if cardProgressStore == nil {
		panic("cardProgressStore cannot be nil")
	}
	if catalogStore == nil {
		panic("catalogStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if xpService == nil {
		panic("xpService cannot be nil")
	}
	if goalService == nil {
		panic("goalService cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if xpPerReview <= 0 {
		xpPerReview = 5
	}
	if batchSize <= 0 {
		batchSize = 20
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &progressServiceImpl{
		cardProgressStore: cardProgressStore,
		catalogStore:      catalogStore,
		srsService:        srsService,
		xpService:         xpService,
		goalService:       goalService,
		emitter:           emitter,
		cache:             newProgressCache(),
		counts:            newCategoryCountCache(),
		xpPerReview:       xpPerReview,
		batchSize:         batchSize,
		logger:            logger.With(slog.String("component", "progress_service")),
	}
}

// GetReviewQueue implements ProgressService.GetReviewQueue.
func (s *progressServiceImpl) GetReviewQueue(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	limit int,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 || limit > s.batchSize {
		limit = s.batchSize
	}

	cards, err := s.cardProgressStore.ListDueCards(ctx, userID, categoryID, time.Now().UTC(), limit)
	if err != nil {
		log.Error("failed to load review queue",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("get_review_queue", "failed to load due cards", err)
	}

	if len(cards) == 0 {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		return nil, ErrNoCardsDue
	}

	return cards, nil
}

// RecordCardReview implements ProgressService.RecordCardReview.
func (s *progressServiceImpl) RecordCardReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
	now time.Time,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing card review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("quality", quality))

	if quality < srs.MinQuality || quality > srs.MaxQuality {
		return nil, srs.ErrBadQuality
	}

	// Verify the card exists before touching progress.
	if _, err := s.catalogStore.GetCard(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, err
		}
		return nil, NewServiceError("record_review", "failed to load card", err)
	}

	current, err := s.currentProgress(ctx, userID, cardID)
	if err != nil {
		return nil, NewServiceError("record_review", "failed to load card progress", err)
	}

	updated, err := s.srsService.CalculateNextReview(current, quality, now)
	if err != nil {
		return nil, err
	}

	if err := s.cardProgressStore.Upsert(ctx, updated); err != nil {
		return nil, NewServiceError("record_review", "failed to persist card progress", err)
	}
	s.cache.put(updated)

	result := &ReviewResult{Progress: updated}

	// The card state is committed; everything below is reward processing
	// and must not roll it back. Only a passing answer earns rewards;
	// failed reviews just reschedule the card.
	var rewardErr error
	if quality >= srs.PassThreshold {
		rewardErr = s.processRewards(ctx, userID, cardID, result)
	}

	event, evtErr := events.NewProgressEvent(events.EventCardReviewed, userID, CardReviewedPayload{
		CardID:       cardID,
		Quality:      quality,
		MasteryLevel: updated.MasteryLevel,
		NextReview:   updated.NextReview,
	})
	if evtErr == nil {
		if emitErr := s.emitter.EmitEvent(ctx, event); emitErr != nil {
			log.Warn("card reviewed event handling failed",
				slog.String("user_id", userID.String()),
				slog.String("error", emitErr.Error()))
		}
	}

	if rewardErr != nil {
		log.Warn("review recorded but rewards failed",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", rewardErr.Error()))
		return result, fmt.Errorf("%w: %v", ErrRewardFailed, rewardErr)
	}

	return result, nil
}

// RecordCardReviewOutcome implements ProgressService.RecordCardReviewOutcome.
func (s *progressServiceImpl) RecordCardReviewOutcome(
	ctx context.Context,
	userID, cardID uuid.UUID,
	correct bool,
	now time.Time,
) (*ReviewResult, error) {
	return s.RecordCardReview(ctx, userID, cardID, s.srsService.QualityForOutcome(correct), now)
}

// currentProgress reads the learner's record for one card from the in-memory
// index, building the index from the store on first access. A card the
// learner has never reviewed gets a fresh record.
func (s *progressServiceImpl) currentProgress(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardProgress, error) {
	if !s.cache.loaded(userID) {
		records, err := s.cardProgressStore.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load progress index: %w", err)
		}
		s.cache.load(userID, records)
	}

	if cached, ok := s.cache.get(userID, cardID); ok {
		return cached, nil
	}
	return domain.NewCardProgress(userID, cardID)
}

// processRewards grants the fixed review XP and credits the daily goal.
// Both results are attached to the review result as they land.
func (s *progressServiceImpl) processRewards(
	ctx context.Context,
	userID, cardID uuid.UUID,
	result *ReviewResult,
) error {
	profile, err := s.xpService.AwardXP(
		ctx,
		userID,
		s.xpPerReview,
		domain.XPSourceCardReview,
		&cardID,
		"Card review",
	)
	if err != nil {
		return fmt.Errorf("xp award: %w", err)
	}
	result.XPAwarded = s.xpPerReview
	result.Profile = profile

	goal, err := s.goalService.RecordActivity(ctx, userID, time.Now().UTC(), domain.GoalDelta{
		CardsCompleted: 1,
		XPEarned:       s.xpPerReview,
	})
	if err != nil {
		return fmt.Errorf("goal update: %w", err)
	}
	result.Goal = goal

	return nil
}

// GetCategoryProgress implements ProgressService.GetCategoryProgress.
func (s *progressServiceImpl) GetCategoryProgress(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (*CategorySummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, ok := s.counts.get(categoryID)
	if !ok {
		// Verify the category exists on the first lookup; the count is
		// cached afterwards since catalog content is immutable.
		if _, err := s.catalogStore.GetCategory(ctx, categoryID); err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				return nil, err
			}
			return nil, NewServiceError("category_progress", "failed to load category", err)
		}

		var err error
		total, err = s.catalogStore.CountCardsByCategory(ctx, categoryID)
		if err != nil {
			return nil, NewServiceError("category_progress", "failed to count cards", err)
		}
		s.counts.put(categoryID, total)
	}

	mastered, err := s.cardProgressStore.CountMastered(ctx, userID, categoryID)
	if err != nil {
		log.Error("failed to count mastered cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("category_id", categoryID.String()))
		return nil, NewServiceError("category_progress", "failed to count mastered cards", err)
	}

	return &CategorySummary{
		CategoryID:      categoryID,
		TotalCards:      total,
		MasteredCards:   mastered,
		ProgressPercent: domain.CategoryProgress(mastered, total),
	}, nil
}
