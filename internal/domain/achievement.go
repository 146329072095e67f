package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Achievement requirement types. The requirement value is compared against
// the matching learner statistic when deciding whether to award.
const (
	RequirementXPTotal          = "xp_total"
	RequirementStreakDays       = "streak_days"
	RequirementLessonsCompleted = "lessons_completed"
	RequirementCardsMastered    = "cards_mastered"
)

// Common validation errors for achievements.
var (
	ErrEmptyAchievementID   = errors.New("achievement ID cannot be empty")
	ErrEmptyAchievementName = errors.New("achievement name cannot be empty")
)

// Achievement is a row in the static achievement catalog. Catalog entries
// are reference data; the engine never mutates them.
type Achievement struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	Category         string    `json:"category"`
	XPReward         int       `json:"xp_reward"`
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int       `json:"requirement_value"`
	IsSecret         bool      `json:"is_secret"`
	OrderIndex       int       `json:"order_index"`
}

// Validate checks if the Achievement has valid data.
func (a *Achievement) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAchievementID
	}

	if a.Name == "" {
		return ErrEmptyAchievementName
	}

	return nil
}

// UserAchievement is the append-only join recording that a learner earned an
// achievement. Earning is idempotent: the (user, achievement) pair is unique
// and a second award attempt is a no-op.
type UserAchievement struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}
