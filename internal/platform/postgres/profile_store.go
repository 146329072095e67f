package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// Create implements store.ProfileStore.Create
// It saves a new profile to the database, handling domain validation.
// Returns store.ErrDuplicate if a profile with the same ID already exists.
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during create",
			slog.String("error", err.Error()),
			slog.String("profile_id", profile.ID.String()))
		return err
	}

	query := `
		INSERT INTO profiles (id, display_name, xp_total, xp_today, current_streak,
			longest_streak, last_practice_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.DisplayName,
		profile.XPTotal,
		profile.XPToday,
		profile.CurrentStreak,
		profile.LongestStreak,
		profile.LastPracticeDate,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Warn("duplicate profile on create",
				slog.String("profile_id", profile.ID.String()))
			return mapped
		}
		log.Error("failed to create profile",
			slog.String("profile_id", profile.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create profile: %w", mapped)
	}

	return nil
}

// Get implements store.ProfileStore.Get
// Returns store.ErrProfileNotFound if the profile does not exist.
func (s *PostgresProfileStore) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, display_name, xp_total, xp_today, current_streak,
			longest_streak, last_practice_date, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile domain.Profile
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.DisplayName,
		&profile.XPTotal,
		&profile.XPToday,
		&profile.CurrentStreak,
		&profile.LongestStreak,
		&profile.LastPracticeDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("profile_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get profile: %w", MapError(err))
	}

	return &profile, nil
}

// AddXP implements store.ProfileStore.AddXP
// The whole award runs inside the add_xp database function so that the
// transaction append, total increment, daily rollover, and streak update are
// a single atomic statement. Concurrent awards serialize on the profile row.
func (s *PostgresProfileStore) AddXP(
	ctx context.Context,
	txn *domain.XPTransaction,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := txn.Validate(); err != nil {
		log.Warn("xp transaction validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", txn.UserID.String()))
		return nil, err
	}

	query := `
		SELECT id, display_name, xp_total, xp_today, current_streak,
			longest_streak, last_practice_date, created_at, updated_at
		FROM add_xp($1, $2, $3, $4, $5, $6)
	`

	var profile domain.Profile
	err := s.db.QueryRowContext(
		ctx,
		query,
		txn.ID,
		txn.UserID,
		txn.Amount,
		string(txn.Source),
		txn.SourceID,
		txn.Description,
	).Scan(
		&profile.ID,
		&profile.DisplayName,
		&profile.XPTotal,
		&profile.XPToday,
		&profile.CurrentStreak,
		&profile.LongestStreak,
		&profile.LastPracticeDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to add xp",
			slog.String("user_id", txn.UserID.String()),
			slog.Int("amount", txn.Amount),
			slog.String("source", string(txn.Source)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to add xp: %w", MapError(err))
	}

	log.Debug("xp added",
		slog.String("user_id", txn.UserID.String()),
		slog.Int("amount", txn.Amount),
		slog.Int("xp_total", profile.XPTotal))

	return &profile, nil
}

// ListXPTransactions implements store.ProfileStore.ListXPTransactions
func (s *PostgresProfileStore) ListXPTransactions(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.XPTransaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, amount, source, source_id, description, created_at
		FROM xp_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list xp transactions",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list xp transactions: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var txns []domain.XPTransaction
	for rows.Next() {
		var txn domain.XPTransaction
		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Amount,
			&txn.Source,
			&txn.SourceID,
			&txn.Description,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan xp transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating xp transactions: %w", err)
	}

	return txns, nil
}

// WithTx implements store.ProfileStore.WithTx
// It returns a new ProfileStore instance using the provided transaction.
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}
