package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/store"
)

type lessonProgressKey struct {
	userID   uuid.UUID
	lessonID uuid.UUID
}

// MockLessonProgressStore implements store.LessonProgressStore for testing
type MockLessonProgressStore struct {
	// Function fields for customizable behavior
	GetFn                    func(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)
	ListByUserFn             func(ctx context.Context, userID uuid.UUID) ([]domain.LessonProgress, error)
	StartFn                  func(ctx context.Context, progress *domain.LessonProgress) (*domain.LessonProgress, error)
	SetPhrasesCompletedFn    func(ctx context.Context, userID, lessonID uuid.UUID, phrases int) (*domain.LessonProgress, error)
	CompleteIfNotCompletedFn func(ctx context.Context, userID, lessonID uuid.UUID, score, xpEarned int) (*domain.LessonProgress, bool, error)
	CountCompletedFn         func(ctx context.Context, userID uuid.UUID) (int, error)

	// Data for default implementation
	Entries map[lessonProgressKey]*domain.LessonProgress
}

// NewMockLessonProgressStore creates a new mock store with initialized defaults
func NewMockLessonProgressStore() *MockLessonProgressStore {
	return &MockLessonProgressStore{
		Entries: make(map[lessonProgressKey]*domain.LessonProgress),
	}
}

// Get implements the LessonProgressStore interface
func (m *MockLessonProgressStore) Get(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.LessonProgress, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, lessonID)
	}

	entry, exists := m.Entries[lessonProgressKey{userID, lessonID}]
	if !exists {
		return nil, store.ErrLessonProgressNotFound
	}
	return entry, nil
}

// ListByUser implements the LessonProgressStore interface
func (m *MockLessonProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.LessonProgress, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	var result []domain.LessonProgress
	for key, entry := range m.Entries {
		if key.userID == userID {
			result = append(result, *entry)
		}
	}
	return result, nil
}

// Start implements the LessonProgressStore interface
func (m *MockLessonProgressStore) Start(
	ctx context.Context,
	progress *domain.LessonProgress,
) (*domain.LessonProgress, error) {
	if m.StartFn != nil {
		return m.StartFn(ctx, progress)
	}

	key := lessonProgressKey{progress.UserID, progress.LessonID}
	if existing, exists := m.Entries[key]; exists {
		return existing, nil
	}
	m.Entries[key] = progress
	return progress, nil
}

// SetPhrasesCompleted implements the LessonProgressStore interface
func (m *MockLessonProgressStore) SetPhrasesCompleted(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	phrases int,
) (*domain.LessonProgress, error) {
	if m.SetPhrasesCompletedFn != nil {
		return m.SetPhrasesCompletedFn(ctx, userID, lessonID, phrases)
	}

	entry, exists := m.Entries[lessonProgressKey{userID, lessonID}]
	if !exists {
		return nil, store.ErrLessonProgressNotFound
	}
	if entry.Status == domain.LessonCompleted {
		return entry, nil
	}

	updated := *entry
	updated.PhrasesCompleted = phrases
	updated.UpdatedAt = time.Now().UTC()
	m.Entries[lessonProgressKey{userID, lessonID}] = &updated
	return &updated, nil
}

// CompleteIfNotCompleted implements the LessonProgressStore interface
func (m *MockLessonProgressStore) CompleteIfNotCompleted(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	score, xpEarned int,
) (*domain.LessonProgress, bool, error) {
	if m.CompleteIfNotCompletedFn != nil {
		return m.CompleteIfNotCompletedFn(ctx, userID, lessonID, score, xpEarned)
	}

	key := lessonProgressKey{userID, lessonID}
	entry, exists := m.Entries[key]
	if !exists {
		return nil, false, store.ErrLessonProgressNotFound
	}
	if entry.Status == domain.LessonCompleted {
		return entry, false, nil
	}

	now := time.Now().UTC()
	updated := *entry
	updated.Status = domain.LessonCompleted
	updated.Score = score
	updated.XPEarned = xpEarned
	updated.CompletedAt = &now
	updated.UpdatedAt = now
	m.Entries[key] = &updated
	return &updated, true, nil
}

// CountCompleted implements the LessonProgressStore interface
func (m *MockLessonProgressStore) CountCompleted(
	ctx context.Context,
	userID uuid.UUID,
) (int, error) {
	if m.CountCompletedFn != nil {
		return m.CountCompletedFn(ctx, userID)
	}

	count := 0
	for key, entry := range m.Entries {
		if key.userID == userID && entry.Status == domain.LessonCompleted {
			count++
		}
	}
	return count, nil
}

// WithTx implements the LessonProgressStore interface
func (m *MockLessonProgressStore) WithTx(tx *sql.Tx) store.LessonProgressStore {
	return m
}
