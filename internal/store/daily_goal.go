package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// DailyGoalStore defines the interface for daily goal persistence. Rows are
// keyed by (user, calendar date); each day is independent.
type DailyGoalStore interface {
	// GetOrCreate returns the goal row for the given date, creating one
	// with the supplied targets if none exists yet. Concurrent calls for
	// the same (user, date) pair resolve to a single row.
	GetOrCreate(
		ctx context.Context,
		userID uuid.UUID,
		date time.Time,
		targets domain.GoalTargets,
	) (*domain.DailyGoal, error)

	// ApplyDelta atomically adds the delta's counters to the day's row and
	// recomputes the all-goals-met flag server-side. Negative results are
	// clamped to zero. The row is created with the supplied targets when it
	// does not exist yet. Returns the updated goal.
	ApplyDelta(
		ctx context.Context,
		userID uuid.UUID,
		date time.Time,
		targets domain.GoalTargets,
		delta domain.GoalDelta,
	) (*domain.DailyGoal, error)

	// UpdateTargets replaces the day's targets and recomputes the
	// all-goals-met flag. Targets must be non-negative.
	// Returns ErrDailyGoalNotFound if the row does not exist.
	UpdateTargets(
		ctx context.Context,
		userID uuid.UUID,
		date time.Time,
		targets domain.GoalTargets,
	) (*domain.DailyGoal, error)

	// WithTx returns a new DailyGoalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DailyGoalStore
}
