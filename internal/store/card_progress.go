package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// CardProgressStore defines the interface for per-card review state persistence.
type CardProgressStore interface {
	// Get retrieves card progress by the combination of user ID and card ID.
	// Returns ErrCardProgressNotFound if the entry does not exist.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardProgress, error)

	// ListByUser retrieves all card progress entries for a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CardProgress, error)

	// Upsert inserts the progress entry or, when a row for the same
	// (user, card) pair already exists, overwrites its mutable fields.
	// Concurrent upserts for the same pair resolve to one row with no error.
	// It handles domain validation internally.
	Upsert(ctx context.Context, progress *domain.CardProgress) error

	// ListDueCards returns cards ready for review: cards whose schedule says
	// they are due at or before now, plus cards the user has never seen.
	// Never-seen cards come first, then due cards in schedule order, up to
	// limit. Pass uuid.Nil as categoryID to draw from all categories.
	ListDueCards(ctx context.Context, userID, categoryID uuid.UUID, now time.Time, limit int) ([]domain.Card, error)

	// CountMastered returns the number of the user's cards at or above the
	// mastered threshold, optionally restricted to one category. Pass
	// uuid.Nil as categoryID to count across all categories.
	CountMastered(ctx context.Context, userID, categoryID uuid.UUID) (int, error)

	// WithTx returns a new CardProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardProgressStore
}
