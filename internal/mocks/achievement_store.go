package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/store"
)

type userAchievementKey struct {
	userID        uuid.UUID
	achievementID uuid.UUID
}

// MockAchievementStore implements store.AchievementStore for testing
type MockAchievementStore struct {
	// Function fields for customizable behavior
	ListAllFn    func(ctx context.Context) ([]domain.Achievement, error)
	ListEarnedFn func(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)
	AwardFn      func(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)

	// Data for default implementation
	Achievements []domain.Achievement
	Earned       map[userAchievementKey]domain.UserAchievement

	// Call tracking for verification
	AwardCalls []uuid.UUID
}

// NewMockAchievementStore creates a new mock store with initialized defaults
func NewMockAchievementStore() *MockAchievementStore {
	return &MockAchievementStore{
		Earned: make(map[userAchievementKey]domain.UserAchievement),
	}
}

// ListAll implements the AchievementStore interface
func (m *MockAchievementStore) ListAll(ctx context.Context) ([]domain.Achievement, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.Achievements, nil
}

// ListEarned implements the AchievementStore interface
func (m *MockAchievementStore) ListEarned(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.UserAchievement, error) {
	if m.ListEarnedFn != nil {
		return m.ListEarnedFn(ctx, userID)
	}

	var result []domain.UserAchievement
	for key, earned := range m.Earned {
		if key.userID == userID {
			result = append(result, earned)
		}
	}
	return result, nil
}

// Award implements the AchievementStore interface
func (m *MockAchievementStore) Award(
	ctx context.Context,
	userID, achievementID uuid.UUID,
) (bool, error) {
	m.AwardCalls = append(m.AwardCalls, achievementID)

	if m.AwardFn != nil {
		return m.AwardFn(ctx, userID, achievementID)
	}

	key := userAchievementKey{userID, achievementID}
	if _, exists := m.Earned[key]; exists {
		return false, nil
	}

	m.Earned[key] = domain.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now().UTC(),
	}
	return true, nil
}

// ForgetAwards drops the user's earned rows so a test can replay a grant
// that a real transaction would have rolled back.
func (m *MockAchievementStore) ForgetAwards(userID uuid.UUID) {
	for key := range m.Earned {
		if key.userID == userID {
			delete(m.Earned, key)
		}
	}
}

// WithTx implements the AchievementStore interface
func (m *MockAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore {
	return m
}
