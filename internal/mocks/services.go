package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// MockXPService implements service.XPService for testing
type MockXPService struct {
	// Function fields for customizable behavior
	AwardXPFn                func(ctx context.Context, userID uuid.UUID, amount int, source string, sourceID *uuid.UUID, description string) (*domain.Profile, error)
	GetProfileFn             func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	ListRecentTransactionsFn func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.XPTransaction, error)

	// Default response values
	Profile *domain.Profile
	Err     error

	// Call tracking for verification
	AwardXPCalls []int
}

// AwardXP implements the service.XPService interface
func (m *MockXPService) AwardXP(
	ctx context.Context,
	userID uuid.UUID,
	amount int,
	source string,
	sourceID *uuid.UUID,
	description string,
) (*domain.Profile, error) {
	m.AwardXPCalls = append(m.AwardXPCalls, amount)

	if m.AwardXPFn != nil {
		return m.AwardXPFn(ctx, userID, amount, source, sourceID, description)
	}
	return m.Profile, m.Err
}

// GetProfile implements the service.XPService interface
func (m *MockXPService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return m.Profile, m.Err
}

// ListRecentTransactions implements the service.XPService interface
func (m *MockXPService) ListRecentTransactions(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.XPTransaction, error) {
	if m.ListRecentTransactionsFn != nil {
		return m.ListRecentTransactionsFn(ctx, userID, limit)
	}
	return nil, m.Err
}

// MockDailyGoalService implements service.DailyGoalService for testing
type MockDailyGoalService struct {
	// Function fields for customizable behavior
	GetTodayFn       func(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.DailyGoal, error)
	UpdateTargetsFn  func(ctx context.Context, userID uuid.UUID, now time.Time, targets domain.GoalTargets) (*domain.DailyGoal, error)
	RecordActivityFn func(ctx context.Context, userID uuid.UUID, now time.Time, delta domain.GoalDelta) (*domain.DailyGoal, error)

	// Default response values
	Goal *domain.DailyGoal
	Err  error

	// Call tracking for verification
	RecordActivityCalls []domain.GoalDelta
}

// GetToday implements the service.DailyGoalService interface
func (m *MockDailyGoalService) GetToday(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (*domain.DailyGoal, error) {
	if m.GetTodayFn != nil {
		return m.GetTodayFn(ctx, userID, now)
	}
	return m.Goal, m.Err
}

// UpdateTargets implements the service.DailyGoalService interface
func (m *MockDailyGoalService) UpdateTargets(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	targets domain.GoalTargets,
) (*domain.DailyGoal, error) {
	if m.UpdateTargetsFn != nil {
		return m.UpdateTargetsFn(ctx, userID, now, targets)
	}
	return m.Goal, m.Err
}

// RecordActivity implements the service.DailyGoalService interface
func (m *MockDailyGoalService) RecordActivity(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	delta domain.GoalDelta,
) (*domain.DailyGoal, error) {
	m.RecordActivityCalls = append(m.RecordActivityCalls, delta)

	if m.RecordActivityFn != nil {
		return m.RecordActivityFn(ctx, userID, now, delta)
	}
	return m.Goal, m.Err
}
