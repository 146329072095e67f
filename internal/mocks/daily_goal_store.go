package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/store"
)

type dailyGoalKey struct {
	userID uuid.UUID
	day    string
}

func goalKey(userID uuid.UUID, date time.Time) dailyGoalKey {
	return dailyGoalKey{userID, date.UTC().Format("2006-01-02")}
}

// MockDailyGoalStore implements store.DailyGoalStore for testing
type MockDailyGoalStore struct {
	// Function fields for customizable behavior
	GetOrCreateFn   func(ctx context.Context, userID uuid.UUID, date time.Time, targets domain.GoalTargets) (*domain.DailyGoal, error)
	ApplyDeltaFn    func(ctx context.Context, userID uuid.UUID, date time.Time, targets domain.GoalTargets, delta domain.GoalDelta) (*domain.DailyGoal, error)
	UpdateTargetsFn func(ctx context.Context, userID uuid.UUID, date time.Time, targets domain.GoalTargets) (*domain.DailyGoal, error)

	// Data for default implementation
	Goals map[dailyGoalKey]*domain.DailyGoal

	// Call tracking for verification
	ApplyDeltaCalls []domain.GoalDelta
}

// NewMockDailyGoalStore creates a new mock store with initialized defaults
func NewMockDailyGoalStore() *MockDailyGoalStore {
	return &MockDailyGoalStore{
		Goals: make(map[dailyGoalKey]*domain.DailyGoal),
	}
}

func (m *MockDailyGoalStore) getOrCreateLocked(
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
) *domain.DailyGoal {
	key := goalKey(userID, date)
	if goal, exists := m.Goals[key]; exists {
		return goal
	}

	goal, err := domain.NewDailyGoal(userID, date, targets)
	if err != nil {
		// Tests always pass valid targets; fall back to a zeroed row.
		goal = &domain.DailyGoal{UserID: userID, GoalDate: date}
	}
	m.Goals[key] = goal
	return goal
}

// GetOrCreate implements the DailyGoalStore interface
func (m *MockDailyGoalStore) GetOrCreate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
) (*domain.DailyGoal, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, userID, date, targets)
	}
	return m.getOrCreateLocked(userID, date, targets), nil
}

// ApplyDelta implements the DailyGoalStore interface
func (m *MockDailyGoalStore) ApplyDelta(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
	delta domain.GoalDelta,
) (*domain.DailyGoal, error) {
	m.ApplyDeltaCalls = append(m.ApplyDeltaCalls, delta)

	if m.ApplyDeltaFn != nil {
		return m.ApplyDeltaFn(ctx, userID, date, targets, delta)
	}

	goal := m.getOrCreateLocked(userID, date, targets)
	updated := *goal
	updated.Apply(delta)
	m.Goals[goalKey(userID, date)] = &updated
	return &updated, nil
}

// UpdateTargets implements the DailyGoalStore interface
func (m *MockDailyGoalStore) UpdateTargets(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	targets domain.GoalTargets,
) (*domain.DailyGoal, error) {
	if m.UpdateTargetsFn != nil {
		return m.UpdateTargetsFn(ctx, userID, date, targets)
	}

	key := goalKey(userID, date)
	goal, exists := m.Goals[key]
	if !exists {
		return nil, store.ErrDailyGoalNotFound
	}

	updated := *goal
	updated.LessonsTarget = targets.Lessons
	updated.CardsTarget = targets.Cards
	updated.ChatMinutesTarget = targets.ChatMinutes
	updated.XPTarget = targets.XP
	updated.Recalculate()
	m.Goals[key] = &updated
	return &updated, nil
}

// WithTx implements the DailyGoalStore interface
func (m *MockDailyGoalStore) WithTx(tx *sql.Tx) store.DailyGoalStore {
	return m
}
