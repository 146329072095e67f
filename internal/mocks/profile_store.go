package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/store"
)

// MockProfileStore implements store.ProfileStore for testing.
// The default implementation is safe for concurrent use so tests can hit it
// from multiple goroutines.
type MockProfileStore struct {
	mu sync.Mutex

	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, profile *domain.Profile) error
	GetFn                func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	AddXPFn              func(ctx context.Context, txn *domain.XPTransaction) (*domain.Profile, error)
	ListXPTransactionsFn func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.XPTransaction, error)

	// Data for default implementation
	Profiles     map[uuid.UUID]*domain.Profile
	Transactions []domain.XPTransaction
	AddXPError   error

	// Call tracking for verification
	AddXPCalls []*domain.XPTransaction
}

// NewMockProfileStore creates a new mock store with initialized defaults
func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{
		Profiles: make(map[uuid.UUID]*domain.Profile),
	}
}

// Create implements the ProfileStore interface
func (m *MockProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, profile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Profiles[profile.ID]; exists {
		return store.ErrDuplicate
	}

	m.Profiles[profile.ID] = profile
	return nil
}

// Get implements the ProfileStore interface
func (m *MockProfileStore) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	profile, exists := m.Profiles[id]
	if !exists {
		return nil, store.ErrProfileNotFound
	}
	return profile, nil
}

// AddXP implements the ProfileStore interface.
// The default applies the totals update in memory without the daily
// rollover or streak logic, which lives in the database function.
func (m *MockProfileStore) AddXP(
	ctx context.Context,
	txn *domain.XPTransaction,
) (*domain.Profile, error) {
	m.mu.Lock()
	m.AddXPCalls = append(m.AddXPCalls, txn)
	m.mu.Unlock()

	if m.AddXPFn != nil {
		return m.AddXPFn(ctx, txn)
	}

	if m.AddXPError != nil {
		return nil, m.AddXPError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	profile, exists := m.Profiles[txn.UserID]
	if !exists {
		return nil, store.ErrProfileNotFound
	}

	m.Transactions = append(m.Transactions, *txn)
	updated := *profile
	updated.XPTotal += txn.Amount
	updated.XPToday += txn.Amount
	m.Profiles[txn.UserID] = &updated
	return &updated, nil
}

// ListXPTransactions implements the ProfileStore interface
func (m *MockProfileStore) ListXPTransactions(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.XPTransaction, error) {
	if m.ListXPTransactionsFn != nil {
		return m.ListXPTransactionsFn(ctx, userID, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.XPTransaction
	for i := len(m.Transactions) - 1; i >= 0 && len(result) < limit; i-- {
		if m.Transactions[i].UserID == userID {
			result = append(result, m.Transactions[i])
		}
	}
	return result, nil
}

// WithTx implements the ProfileStore interface
func (m *MockProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return m
}
