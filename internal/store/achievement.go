package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// AchievementStore defines the interface for achievement definitions and
// per-user awards.
type AchievementStore interface {
	// ListAll retrieves every achievement definition, ordered for display.
	ListAll(ctx context.Context) ([]domain.Achievement, error)

	// ListEarned retrieves the achievements a user has earned.
	ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)

	// Award records that the user earned the achievement. Awarding is
	// idempotent; the bool result reports whether a new row was written.
	Award(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)

	// WithTx returns a new AchievementStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AchievementStore
}
