package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/store"
)

type cardProgressKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

// MockCardProgressStore implements store.CardProgressStore for testing
type MockCardProgressStore struct {
	// Function fields for customizable behavior
	GetFn           func(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardProgress, error)
	ListByUserFn    func(ctx context.Context, userID uuid.UUID) ([]domain.CardProgress, error)
	UpsertFn        func(ctx context.Context, progress *domain.CardProgress) error
	ListDueCardsFn  func(ctx context.Context, userID, categoryID uuid.UUID, now time.Time, limit int) ([]domain.Card, error)
	CountMasteredFn func(ctx context.Context, userID, categoryID uuid.UUID) (int, error)

	// Data for default implementation
	Entries       map[cardProgressKey]*domain.CardProgress
	DueCards      []domain.Card
	MasteredCount int
	UpsertError   error

	// Call tracking for verification
	UpsertCalls []*domain.CardProgress
}

// NewMockCardProgressStore creates a new mock store with initialized defaults
func NewMockCardProgressStore() *MockCardProgressStore {
	return &MockCardProgressStore{
		Entries: make(map[cardProgressKey]*domain.CardProgress),
	}
}

// Get implements the CardProgressStore interface
func (m *MockCardProgressStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardProgress, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, cardID)
	}

	entry, exists := m.Entries[cardProgressKey{userID, cardID}]
	if !exists {
		return nil, store.ErrCardProgressNotFound
	}
	return entry, nil
}

// ListByUser implements the CardProgressStore interface
func (m *MockCardProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.CardProgress, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	var result []domain.CardProgress
	for key, entry := range m.Entries {
		if key.userID == userID {
			result = append(result, *entry)
		}
	}
	return result, nil
}

// Upsert implements the CardProgressStore interface
func (m *MockCardProgressStore) Upsert(ctx context.Context, progress *domain.CardProgress) error {
	m.UpsertCalls = append(m.UpsertCalls, progress)

	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, progress)
	}

	if m.UpsertError != nil {
		return m.UpsertError
	}

	m.Entries[cardProgressKey{progress.UserID, progress.CardID}] = progress
	return nil
}

// ListDueCards implements the CardProgressStore interface
func (m *MockCardProgressStore) ListDueCards(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.Card, error) {
	if m.ListDueCardsFn != nil {
		return m.ListDueCardsFn(ctx, userID, categoryID, now, limit)
	}

	cards := m.DueCards
	if categoryID != uuid.Nil {
		cards = nil
		for _, c := range m.DueCards {
			if c.CategoryID != nil && *c.CategoryID == categoryID {
				cards = append(cards, c)
			}
		}
	}
	if limit > 0 && len(cards) > limit {
		return cards[:limit], nil
	}
	return cards, nil
}

// CountMastered implements the CardProgressStore interface
func (m *MockCardProgressStore) CountMastered(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (int, error) {
	if m.CountMasteredFn != nil {
		return m.CountMasteredFn(ctx, userID, categoryID)
	}
	return m.MasteredCount, nil
}

// WithTx implements the CardProgressStore interface
func (m *MockCardProgressStore) WithTx(tx *sql.Tx) store.CardProgressStore {
	return m
}
