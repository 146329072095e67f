package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for DailyGoal.
var (
	ErrEmptyGoalUserID = errors.New("daily goal user ID cannot be empty")
	ErrZeroGoalDate    = errors.New("daily goal date cannot be zero")
)

// GoalTargets holds the per-day quotas a learner is expected to hit.
type GoalTargets struct {
	Lessons     int `json:"lessons"`
	Cards       int `json:"cards"`
	ChatMinutes int `json:"chat_minutes"`
	XP          int `json:"xp"`
}

// DefaultGoalTargets returns the stock daily quotas applied when a day's
// record is first created.
func DefaultGoalTargets() GoalTargets {
	return GoalTargets{
		Lessons:     1,
		Cards:       10,
		ChatMinutes: 5,
		XP:          50,
	}
}

// GoalDelta is an incremental contribution merged into a day's counters.
// Negative values are permitted but counters never drop below zero.
type GoalDelta struct {
	LessonsCompleted     int
	CardsCompleted       int
	ChatMinutesCompleted int
	XPEarned             int
}

// IsZero reports whether the delta carries no changes.
func (d GoalDelta) IsZero() bool {
	return d == GoalDelta{}
}

// DailyGoal is one learner's goal record for one calendar day. Days are
// independent: unmet goals never roll over. Keyed by (user, goal_date);
// created on first access of the day.
type DailyGoal struct {
	UserID               uuid.UUID `json:"user_id"`
	GoalDate             time.Time `json:"goal_date"` // Calendar date, midnight UTC
	LessonsTarget        int       `json:"lessons_target"`
	LessonsCompleted     int       `json:"lessons_completed"`
	CardsTarget          int       `json:"cards_target"`
	CardsCompleted       int       `json:"cards_completed"`
	ChatMinutesTarget    int       `json:"chat_minutes_target"`
	ChatMinutesCompleted int       `json:"chat_minutes_completed"`
	XPTarget             int       `json:"xp_target"`
	XPEarned             int       `json:"xp_earned"`
	AllGoalsMet          bool      `json:"all_goals_met"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewDailyGoal creates a zeroed goal record for the given day and targets.
func NewDailyGoal(userID uuid.UUID, date time.Time, targets GoalTargets) (*DailyGoal, error) {
	goal := &DailyGoal{
		UserID:            userID,
		GoalDate:          date,
		LessonsTarget:     targets.Lessons,
		CardsTarget:       targets.Cards,
		ChatMinutesTarget: targets.ChatMinutes,
		XPTarget:          targets.XP,
		CreatedAt:         time.Now().UTC(),
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	return goal, nil
}

// Validate checks if the DailyGoal has valid data.
func (g *DailyGoal) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrEmptyGoalUserID
	}

	if g.GoalDate.IsZero() {
		return ErrZeroGoalDate
	}

	return nil
}

// Apply merges a delta into the counters (never below zero) and recomputes
// AllGoalsMet. Targets are never modified by a delta.
func (g *DailyGoal) Apply(delta GoalDelta) {
	g.LessonsCompleted = clampNonNegative(g.LessonsCompleted + delta.LessonsCompleted)
	g.CardsCompleted = clampNonNegative(g.CardsCompleted + delta.CardsCompleted)
	g.ChatMinutesCompleted = clampNonNegative(g.ChatMinutesCompleted + delta.ChatMinutesCompleted)
	g.XPEarned = clampNonNegative(g.XPEarned + delta.XPEarned)
	g.Recalculate()
}

// Recalculate refreshes the derived AllGoalsMet flag from the counters.
func (g *DailyGoal) Recalculate() {
	g.AllGoalsMet = g.LessonsCompleted >= g.LessonsTarget &&
		g.CardsCompleted >= g.CardsTarget &&
		g.ChatMinutesCompleted >= g.ChatMinutesTarget &&
		g.XPEarned >= g.XPTarget
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
