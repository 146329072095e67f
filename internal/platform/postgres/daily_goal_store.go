package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// PostgresDailyGoalStore implements the store.DailyGoalStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDailyGoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDailyGoalStore creates a new PostgreSQL implementation of the
// DailyGoalStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDailyGoalStore(db store.DBTX, logger *slog.Logger) *PostgresDailyGoalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDailyGoalStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_goal_store")),
	}
}

// Ensure PostgresDailyGoalStore implements store.DailyGoalStore interface
var _ store.DailyGoalStore = (*PostgresDailyGoalStore)(nil)

const dailyGoalColumns = `user_id, goal_date, lessons_target, cards_target,
	chat_minutes_target, xp_target, lessons_completed, cards_completed,
	chat_minutes_completed, xp_earned, all_goals_met, created_at`

func scanDailyGoal(row interface{ Scan(...any) error }) (*domain.DailyGoal, error) {
	var g domain.DailyGoal
	err := row.Scan(
		&g.UserID,
		&g.GoalDate,
		&g.LessonsTarget,
		&g.CardsTarget,
		&g.ChatMinutesTarget,
		&g.XPTarget,
		&g.LessonsCompleted,
		&g.CardsCompleted,
		&g.ChatMinutesCompleted,
		&g.XPEarned,
		&g.AllGoalsMet,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// goalDay truncates a timestamp to its calendar date in UTC.
func goalDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ensureRow inserts the day's row with zero counters when it does not exist.
// ON CONFLICT DO NOTHING keeps concurrent first touches of a day safe.
func (s *PostgresDailyGoalStore) ensureRow(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO daily_goals (user_id, goal_date, lessons_target, cards_target,
			chat_minutes_target, xp_target, lessons_completed, cards_completed,
			chat_minutes_completed, xp_earned, all_goals_met, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, 0, FALSE, $7, $7)
		ON CONFLICT (user_id, goal_date) DO NOTHING
	`
	_, err := s.db.ExecContext(
		ctx, query,
		userID, goalDay(date),
		targets.Lessons, targets.Cards, targets.ChatMinutes, targets.XP,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure daily goal row: %w", MapError(err))
	}
	return nil
}

// GetOrCreate implements store.DailyGoalStore.GetOrCreate
func (s *PostgresDailyGoalStore) GetOrCreate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
) (*domain.DailyGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.ensureRow(ctx, userID, date, targets); err != nil {
		log.Error("failed to create daily goal",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		SELECT ` + dailyGoalColumns + `
		FROM daily_goals
		WHERE user_id = $1 AND goal_date = $2
	`
	goal, err := scanDailyGoal(s.db.QueryRowContext(ctx, query, userID, goalDay(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDailyGoalNotFound
		}
		log.Error("failed to get daily goal",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get daily goal: %w", MapError(err))
	}

	return goal, nil
}

// ApplyDelta implements store.DailyGoalStore.ApplyDelta
// The additions, zero clamping, and all-goals-met recomputation all happen
// in one UPDATE so concurrent deltas for the same day never lose counts.
func (s *PostgresDailyGoalStore) ApplyDelta(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
	delta domain.GoalDelta,
) (*domain.DailyGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.ensureRow(ctx, userID, date, targets); err != nil {
		log.Error("failed to create daily goal before delta",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		UPDATE daily_goals
		SET lessons_completed = GREATEST(0, lessons_completed + $3),
			cards_completed = GREATEST(0, cards_completed + $4),
			chat_minutes_completed = GREATEST(0, chat_minutes_completed + $5),
			xp_earned = GREATEST(0, xp_earned + $6),
			all_goals_met =
				GREATEST(0, lessons_completed + $3) >= lessons_target AND
				GREATEST(0, cards_completed + $4) >= cards_target AND
				GREATEST(0, chat_minutes_completed + $5) >= chat_minutes_target AND
				GREATEST(0, xp_earned + $6) >= xp_target,
			updated_at = $7
		WHERE user_id = $1 AND goal_date = $2
		RETURNING ` + dailyGoalColumns + `
	`

	goal, err := scanDailyGoal(s.db.QueryRowContext(
		ctx, query,
		userID, goalDay(date),
		delta.LessonsCompleted, delta.CardsCompleted,
		delta.ChatMinutesCompleted, delta.XPEarned,
		time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDailyGoalNotFound
		}
		log.Error("failed to apply daily goal delta",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to apply daily goal delta: %w", MapError(err))
	}

	return goal, nil
}

// UpdateTargets implements store.DailyGoalStore.UpdateTargets
func (s *PostgresDailyGoalStore) UpdateTargets(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
) (*domain.DailyGoal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE daily_goals
		SET lessons_target = $3, cards_target = $4,
			chat_minutes_target = $5, xp_target = $6,
			all_goals_met =
				lessons_completed >= $3 AND
				cards_completed >= $4 AND
				chat_minutes_completed >= $5 AND
				xp_earned >= $6,
			updated_at = $7
		WHERE user_id = $1 AND goal_date = $2
		RETURNING ` + dailyGoalColumns + `
	`

	goal, err := scanDailyGoal(s.db.QueryRowContext(
		ctx, query,
		userID, goalDay(date),
		targets.Lessons, targets.Cards, targets.ChatMinutes, targets.XP,
		time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDailyGoalNotFound
		}
		log.Error("failed to update daily goal targets",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update daily goal targets: %w", MapError(err))
	}

	return goal, nil
}

// WithTx implements store.DailyGoalStore.WithTx
// It returns a new DailyGoalStore instance using the provided transaction.
func (s *PostgresDailyGoalStore) WithTx(tx *sql.Tx) store.DailyGoalStore {
	return &PostgresDailyGoalStore{
		db:     tx,
		logger: s.logger,
	}
}
