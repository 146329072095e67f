package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// DailyGoalServiceError is a custom error type for daily goal service errors.
type DailyGoalServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for DailyGoalServiceError.
func (e *DailyGoalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("daily goal service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("daily goal service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *DailyGoalServiceError) Unwrap() error {
	return e.Err
}

// NewDailyGoalServiceError creates a new DailyGoalServiceError.
func NewDailyGoalServiceError(operation, message string, err error) *DailyGoalServiceError {
	return &DailyGoalServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GoalsMetPayload is the event payload for events.EventGoalsMet.
type GoalsMetPayload struct {
	GoalDate time.Time `json:"goal_date"`
}

// DailyGoalService provides per-day goal tracking. Each calendar day stands
// alone; progress and targets never carry over.
type DailyGoalService interface {
	// GetToday returns the learner's goal record for now's calendar day,
	// creating it with the default targets on first access.
	GetToday(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.DailyGoal, error)

	// UpdateTargets replaces today's targets. Targets must be non-negative;
	// returns ErrNegativeTarget otherwise.
	UpdateTargets(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		targets domain.GoalTargets,
	) (*domain.DailyGoal, error)

	// RecordActivity merges a delta into today's counters and returns the
	// updated record. Emits a goals-met event when the delta tips every
	// counter over its target.
	RecordActivity(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		delta domain.GoalDelta,
	) (*domain.DailyGoal, error)
}

// dailyGoalServiceImpl implements the DailyGoalService interface.
type dailyGoalServiceImpl struct {
	goalStore store.DailyGoalStore
	defaults  domain.GoalTargets
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewDailyGoalService creates a new DailyGoalService.
// It returns an error if any of the required dependencies are nil.
func NewDailyGoalService(
	goalStore store.DailyGoalStore,
	defaults domain.GoalTargets,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (DailyGoalService, error) {
	if goalStore == nil {
		return nil, fmt.Errorf("daily goal store cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &dailyGoalServiceImpl{
		goalStore: goalStore,
		defaults:  defaults,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "daily_goal_service")),
	}, nil
}

// GetToday implements DailyGoalService.GetToday
func (s *dailyGoalServiceImpl) GetToday(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*domain.DailyGoal, error) {
	goal, err := s.goalStore.GetOrCreate(ctx, userID, now, s.defaults)
	if err != nil {
		return nil, NewDailyGoalServiceError("get_today", "failed to load daily goal", err)
	}
	return goal, nil
}

// UpdateTargets implements DailyGoalService.UpdateTargets
func (s *dailyGoalServiceImpl) UpdateTargets(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	targets domain.GoalTargets,
) (*domain.DailyGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if targets.Lessons < 0 || targets.Cards < 0 || targets.ChatMinutes < 0 || targets.XP < 0 {
		return nil, ErrNegativeTarget
	}

	// Make sure today's row exists before updating its targets.
	if _, err := s.goalStore.GetOrCreate(ctx, userID, now, s.defaults); err != nil {
		return nil, NewDailyGoalServiceError("update_targets", "failed to load daily goal", err)
	}

	goal, err := s.goalStore.UpdateTargets(ctx, userID, now, targets)
	if err != nil {
		return nil, NewDailyGoalServiceError("update_targets", "failed to update targets", err)
	}

	log.Info("daily goal targets updated",
		slog.String("user_id", userID.String()),
		slog.Int("lessons", targets.Lessons),
		slog.Int("cards", targets.Cards),
		slog.Int("chat_minutes", targets.ChatMinutes),
		slog.Int("xp", targets.XP))

	return goal, nil
}

// RecordActivity implements DailyGoalService.RecordActivity
func (s *dailyGoalServiceImpl) RecordActivity(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	delta domain.GoalDelta,
) (*domain.DailyGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if delta.IsZero() {
		return s.GetToday(ctx, userID, now)
	}

	before, err := s.goalStore.GetOrCreate(ctx, userID, now, s.defaults)
	if err != nil {
		return nil, NewDailyGoalServiceError("record_activity", "failed to load daily goal", err)
	}

	goal, err := s.goalStore.ApplyDelta(ctx, userID, now, s.defaults, delta)
	if err != nil {
		return nil, NewDailyGoalServiceError("record_activity", "failed to apply delta", err)
	}

	if goal.AllGoalsMet && !before.AllGoalsMet {
		log.Info("all daily goals met",
			slog.String("user_id", userID.String()),
			slog.Time("goal_date", goal.GoalDate))

		event, err := events.NewProgressEvent(events.EventGoalsMet, userID, GoalsMetPayload{
			GoalDate: goal.GoalDate,
		})
		if err == nil {
			if emitErr := s.emitter.EmitEvent(ctx, event); emitErr != nil {
				log.Warn("goals met event handling failed",
					slog.String("user_id", userID.String()),
					slog.String("error", emitErr.Error()))
			}
		}
	}

	return goal, nil
}
