package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// LessonServiceError is a custom error type for lesson service errors.
type LessonServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LessonServiceError.
func (e *LessonServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lesson service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("lesson service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LessonServiceError) Unwrap() error {
	return e.Err
}

// NewLessonServiceError creates a new LessonServiceError.
func NewLessonServiceError(operation, message string, err error) *LessonServiceError {
	return &LessonServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// LessonCompletedPayload is the event payload for events.EventLessonCompleted.
type LessonCompletedPayload struct {
	LessonID uuid.UUID `json:"lesson_id"`
	Score    int       `json:"score"`
	XPEarned int       `json:"xp_earned"`
}

// LessonService drives the lesson progress state machine:
// not_started -> in_progress -> completed, with completed terminal.
type LessonService interface {
	// StartLesson creates (or returns) the learner's progress for a lesson.
	// Starting is idempotent; a completed lesson is returned unchanged.
	StartLesson(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)

	// UpdatePhrases records how many phrases the learner has finished. The
	// counter only moves forward and is capped at the lesson's phrase count;
	// completed lessons are never modified.
	UpdatePhrases(
		ctx context.Context,
		userID, lessonID uuid.UUID,
		phrasesCompleted int,
	) (*domain.LessonProgress, error)

	// CompleteLesson transitions the lesson to completed with the given
	// score (0-100) and computes the XP earned from the lesson's reward.
	// Completion happens at most once: the bool result reports whether this
	// call performed the transition. Repeat calls return the stored record
	// with awarded false.
	//
	// Completion grants the earned XP and credits the daily goal. The
	// completion is committed before rewards run; if a reward step fails
	// the returned error wraps ErrRewardFailed and the stored record is
	// still returned.
	CompleteLesson(
		ctx context.Context,
		userID, lessonID uuid.UUID,
		score int,
	) (*domain.LessonProgress, bool, error)

	// GetProgress returns the learner's progress for a lesson along with
	// the lesson definition. A lesson never started reports a not_started
	// placeholder rather than an error.
	GetProgress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, *domain.Lesson, error)

	// NextLesson returns the first lesson, in catalog order, the learner
	// has not completed. Returns store.ErrLessonNotFound when everything is
	// done.
	NextLesson(ctx context.Context, userID uuid.UUID) (*domain.Lesson, error)
}

// lessonServiceImpl implements the LessonService interface.
type lessonServiceImpl struct {
	lessonProgressStore store.LessonProgressStore
	catalogStore        store.CatalogStore
	xpService           XPService
	goalService         DailyGoalService
	emitter             events.EventEmitter
	logger              *slog.Logger
}

// NewLessonService creates a new LessonService.
// It returns an error if any of the required dependencies are nil.
func NewLessonService(
	lessonProgressStore store.LessonProgressStore,
	catalogStore store.CatalogStore,
	xpService XPService,
	goalService DailyGoalService,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (LessonService, error) {
	if lessonProgressStore == nil {
		return nil, fmt.Errorf("lesson progress store cannot be nil")
	}
	if catalogStore == nil {
		return nil, fmt.Errorf("catalog store cannot be nil")
	}
	if xpService == nil {
		return nil, fmt.Errorf("xp service cannot be nil")
	}
	if goalService == nil {
		return nil, fmt.Errorf("daily goal service cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &lessonServiceImpl{
		lessonProgressStore: lessonProgressStore,
		catalogStore:        catalogStore,
		xpService:           xpService,
		goalService:         goalService,
		emitter:             emitter,
		logger:              logger.With(slog.String("component", "lesson_service")),
	}, nil
}

// StartLesson implements LessonService.StartLesson
func (s *lessonServiceImpl) StartLesson(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Verify the lesson exists before creating progress for it.
	if _, err := s.catalogStore.GetLesson(ctx, lessonID); err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, err
		}
		return nil, NewLessonServiceError("start", "failed to load lesson", err)
	}

	progress, err := domain.NewLessonProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}

	stored, err := s.lessonProgressStore.Start(ctx, progress)
	if err != nil {
		return nil, NewLessonServiceError("start", "failed to start lesson", err)
	}

	log.Info("lesson started",
		slog.String("user_id", userID.String()),
		slog.String("lesson_id", lessonID.String()),
		slog.String("status", string(stored.Status)))

	return stored, nil
}

// UpdatePhrases implements LessonService.UpdatePhrases
func (s *lessonServiceImpl) UpdatePhrases(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	phrasesCompleted int,
) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if phrasesCompleted < 0 {
		return nil, domain.ErrNegativePhrases
	}

	lesson, err := s.catalogStore.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, err
		}
		return nil, NewLessonServiceError("update_phrases", "failed to load lesson", err)
	}

	stored, err := s.lessonProgressStore.Get(ctx, userID, lessonID)
	if errors.Is(err, store.ErrLessonProgressNotFound) {
		// First touch of the lesson; create it in progress.
		stored, err = s.StartLesson(ctx, userID, lessonID)
	}
	if err != nil {
		return nil, err
	}

	if stored.Status == domain.LessonCompleted {
		return stored, nil
	}

	target := phrasesCompleted
	if lesson.PhraseCount > 0 && target > lesson.PhraseCount {
		log.Warn("phrase count above lesson size, clamping",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.Int("reported", phrasesCompleted),
			slog.Int("phrase_count", lesson.PhraseCount))
		target = lesson.PhraseCount
	}
	if target < stored.PhrasesCompleted {
		// The counter only moves forward; stale or out-of-order reports
		// keep the stored value.
		log.Warn("phrase count regression ignored",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.Int("reported", target),
			slog.Int("stored", stored.PhrasesCompleted))
		return stored, nil
	}

	updated, err := s.lessonProgressStore.SetPhrasesCompleted(ctx, userID, lessonID, target)
	if err != nil {
		return nil, NewLessonServiceError("update_phrases", "failed to update phrases", err)
	}

	return updated, nil
}

// CompleteLesson implements LessonService.CompleteLesson
func (s *lessonServiceImpl) CompleteLesson(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	score int,
) (*domain.LessonProgress, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if score < 0 || score > 100 {
		return nil, false, domain.ErrInvalidScore
	}

	lesson, err := s.catalogStore.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, false, err
		}
		return nil, false, NewLessonServiceError("complete", "failed to load lesson", err)
	}

	// Completing a lesson the learner never explicitly started is allowed;
	// the progress row is created on the way.
	if _, err := s.lessonProgressStore.Get(ctx, userID, lessonID); errors.Is(err, store.ErrLessonProgressNotFound) {
		if _, err := s.StartLesson(ctx, userID, lessonID); err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, NewLessonServiceError("complete", "failed to load lesson progress", err)
	}

	xpEarned := domain.LessonXPEarned(score, lesson.XPReward)
	progress, completed, err := s.lessonProgressStore.CompleteIfNotCompleted(
		ctx, userID, lessonID, score, xpEarned,
	)
	if err != nil {
		return nil, false, NewLessonServiceError("complete", "failed to complete lesson", err)
	}

	if !completed {
		log.Info("lesson already completed, returning stored record",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()))
		return progress, false, nil
	}

	log.Info("lesson completed",
		slog.String("user_id", userID.String()),
		slog.String("lesson_id", lessonID.String()),
		slog.Int("score", score),
		slog.Int("xp_earned", xpEarned))

	// The completion is committed; rewards below must not roll it back.
	rewardErr := s.processCompletionRewards(ctx, userID, lessonID, xpEarned)

	event, err := events.NewProgressEvent(events.EventLessonCompleted, userID, LessonCompletedPayload{
		LessonID: lessonID,
		Score:    score,
		XPEarned: xpEarned,
	})
	if err == nil {
		if emitErr := s.emitter.EmitEvent(ctx, event); emitErr != nil {
			log.Warn("lesson completed event handling failed",
				slog.String("user_id", userID.String()),
				slog.String("error", emitErr.Error()))
		}
	}

	if rewardErr != nil {
		log.Warn("lesson completed but rewards failed",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.String("error", rewardErr.Error()))
		return progress, true, fmt.Errorf("%w: %v", ErrRewardFailed, rewardErr)
	}

	return progress, true, nil
}

// processCompletionRewards grants the earned XP and credits the daily goal
// for one lesson completion. A zero-score completion earns no XP but still
// counts toward the lessons goal.
func (s *lessonServiceImpl) processCompletionRewards(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	xpEarned int,
) error {
	if xpEarned > 0 {
		if _, err := s.xpService.AwardXP(
			ctx,
			userID,
			xpEarned,
			domain.XPSourceLessonComplete,
			&lessonID,
			"Lesson completed",
		); err != nil {
			return fmt.Errorf("xp award: %w", err)
		}
	}

	if _, err := s.goalService.RecordActivity(ctx, userID, time.Now().UTC(), domain.GoalDelta{
		LessonsCompleted: 1,
		XPEarned:         xpEarned,
	}); err != nil {
		return fmt.Errorf("goal update: %w", err)
	}

	return nil
}

// GetProgress implements LessonService.GetProgress
func (s *lessonServiceImpl) GetProgress(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.LessonProgress, *domain.Lesson, error) {
	lesson, err := s.catalogStore.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, nil, err
		}
		return nil, nil, NewLessonServiceError("get_progress", "failed to load lesson", err)
	}

	progress, err := s.lessonProgressStore.Get(ctx, userID, lessonID)
	if errors.Is(err, store.ErrLessonProgressNotFound) {
		return &domain.LessonProgress{
			UserID:   userID,
			LessonID: lessonID,
			Status:   domain.LessonNotStarted,
		}, lesson, nil
	}
	if err != nil {
		return nil, nil, NewLessonServiceError("get_progress", "failed to load lesson progress", err)
	}

	return progress, lesson, nil
}

// NextLesson implements LessonService.NextLesson
func (s *lessonServiceImpl) NextLesson(ctx context.Context, userID uuid.UUID) (*domain.Lesson, error) {
	lessons, err := s.catalogStore.ListLessons(ctx)
	if err != nil {
		return nil, NewLessonServiceError("next", "failed to list lessons", err)
	}

	entries, err := s.lessonProgressStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewLessonServiceError("next", "failed to list lesson progress", err)
	}

	completed := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if e.Status == domain.LessonCompleted {
			completed[e.LessonID] = true
		}
	}

	for i := range lessons {
		if !completed[lessons[i].ID] {
			return &lessons[i], nil
		}
	}

	return nil, store.ErrLessonNotFound
}
