package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// ProfileStore defines the interface for learner profile persistence.
type ProfileStore interface {
	// Create saves a new profile to the store.
	// It handles domain validation internally.
	// Returns ErrDuplicate if a profile with the same ID already exists.
	Create(ctx context.Context, profile *domain.Profile) error

	// Get retrieves a profile by its ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// AddXP atomically appends an XP transaction and applies its amount to
	// the profile's totals server-side: xp_total increases, xp_today rolls
	// over when the last practice date is not today, and the streak counters
	// advance or reset based on the gap since the last practice. Concurrent
	// calls never lose increments.
	// Returns the updated profile.
	// Returns ErrProfileNotFound if the profile does not exist.
	AddXP(ctx context.Context, txn *domain.XPTransaction) (*domain.Profile, error)

	// ListXPTransactions returns the most recent XP transactions for a user,
	// newest first, up to limit.
	ListXPTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.XPTransaction, error)

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) ProfileStore
}
