package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// PostgresCardProgressStore implements the store.CardProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardProgressStore creates a new PostgreSQL implementation of the
// CardProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardProgressStore(db store.DBTX, logger *slog.Logger) *PostgresCardProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_progress_store")),
	}
}

// Ensure PostgresCardProgressStore implements store.CardProgressStore interface
var _ store.CardProgressStore = (*PostgresCardProgressStore)(nil)

const cardProgressColumns = `user_id, card_id, mastery_level, times_seen, times_correct,
	times_incorrect, ease_factor, interval_days, last_reviewed, next_review,
	created_at, updated_at`

func scanCardProgress(row interface{ Scan(...any) error }) (*domain.CardProgress, error) {
	var p domain.CardProgress
	var lastReviewed sql.NullTime
	err := row.Scan(
		&p.UserID,
		&p.CardID,
		&p.MasteryLevel,
		&p.TimesSeen,
		&p.TimesCorrect,
		&p.TimesIncorrect,
		&p.EaseFactor,
		&p.IntervalDays,
		&lastReviewed,
		&p.NextReview,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		p.LastReviewed = lastReviewed.Time
	}
	return &p, nil
}

// Get implements store.CardProgressStore.Get
// Returns store.ErrCardProgressNotFound if the entry does not exist.
func (s *PostgresCardProgressStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardProgressColumns + `
		FROM card_progress
		WHERE user_id = $1 AND card_id = $2
	`

	progress, err := scanCardProgress(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardProgressNotFound
		}
		log.Error("failed to get card progress",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get card progress: %w", MapError(err))
	}

	return progress, nil
}

// ListByUser implements store.CardProgressStore.ListByUser
func (s *PostgresCardProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.CardProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardProgressColumns + `
		FROM card_progress
		WHERE user_id = $1
		ORDER BY next_review ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list card progress",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list card progress: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.CardProgress
	for rows.Next() {
		progress, err := scanCardProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card progress: %w", err)
		}
		entries = append(entries, *progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card progress: %w", err)
	}

	return entries, nil
}

// Upsert implements store.CardProgressStore.Upsert
// The ON CONFLICT clause makes concurrent first reviews of the same card
// converge on a single row; last write wins on the mutable fields while
// created_at keeps its original value.
func (s *PostgresCardProgressStore) Upsert(ctx context.Context, progress *domain.CardProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("card progress validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("card_id", progress.CardID.String()))
		return err
	}

	query := `
		INSERT INTO card_progress (user_id, card_id, mastery_level, times_seen,
			times_correct, times_incorrect, ease_factor, interval_days,
			last_reviewed, next_review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			mastery_level = EXCLUDED.mastery_level,
			times_seen = EXCLUDED.times_seen,
			times_correct = EXCLUDED.times_correct,
			times_incorrect = EXCLUDED.times_incorrect,
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			last_reviewed = EXCLUDED.last_reviewed,
			next_review = EXCLUDED.next_review,
			updated_at = EXCLUDED.updated_at
	`

	var lastReviewed sql.NullTime
	if !progress.LastReviewed.IsZero() {
		lastReviewed = sql.NullTime{Time: progress.LastReviewed, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.UserID,
		progress.CardID,
		progress.MasteryLevel,
		progress.TimesSeen,
		progress.TimesCorrect,
		progress.TimesIncorrect,
		progress.EaseFactor,
		progress.IntervalDays,
		lastReviewed,
		progress.NextReview,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert card progress",
			slog.String("user_id", progress.UserID.String()),
			slog.String("card_id", progress.CardID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to upsert card progress: %w", MapError(err))
	}

	return nil
}

// ListDueCards implements store.CardProgressStore.ListDueCards
// The left join picks up cards with no progress row at all; those sort
// first so new material leads the queue.
func (s *PostgresCardProgressStore) ListDueCards(
	ctx context.Context,
	userID, categoryID uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		query string
		args  []any
	)
	if categoryID == uuid.Nil {
		query = `
			SELECT c.id, c.category_id, c.indonesian_text, c.english_translation,
				c.pronunciation_guide, c.difficulty, c.order_index, c.created_at
			FROM cards c
			LEFT JOIN card_progress cp ON cp.card_id = c.id AND cp.user_id = $1
			WHERE cp.next_review IS NULL OR cp.next_review <= $2
			ORDER BY cp.next_review ASC NULLS FIRST, c.order_index ASC
			LIMIT $3
		`
		args = []any{userID, now, limit}
	} else {
		query = `
			SELECT c.id, c.category_id, c.indonesian_text, c.english_translation,
				c.pronunciation_guide, c.difficulty, c.order_index, c.created_at
			FROM cards c
			LEFT JOIN card_progress cp ON cp.card_id = c.id AND cp.user_id = $1
			WHERE c.category_id = $2 AND (cp.next_review IS NULL OR cp.next_review <= $3)
			ORDER BY cp.next_review ASC NULLS FIRST, c.order_index ASC
			LIMIT $4
		`
		args = []any{userID, categoryID, now, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list due cards: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(
			&c.ID, &c.CategoryID, &c.IndonesianText, &c.EnglishTranslation,
			&c.PronunciationGuide, &c.Difficulty, &c.OrderIndex, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due cards: %w", err)
	}

	return cards, nil
}

// CountMastered implements store.CardProgressStore.CountMastered
func (s *PostgresCardProgressStore) CountMastered(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		query string
		args  []any
	)
	if categoryID == uuid.Nil {
		query = `
			SELECT COUNT(*)
			FROM card_progress
			WHERE user_id = $1 AND mastery_level >= $2
		`
		args = []any{userID, domain.MasteredThreshold}
	} else {
		query = `
			SELECT COUNT(*)
			FROM card_progress cp
			JOIN cards c ON c.id = cp.card_id
			WHERE cp.user_id = $1 AND cp.mastery_level >= $2 AND c.category_id = $3
		`
		args = []any{userID, domain.MasteredThreshold, categoryID}
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count mastered cards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count mastered cards: %w", MapError(err))
	}

	return count, nil
}

// WithTx implements store.CardProgressStore.WithTx
// It returns a new CardProgressStore instance using the provided transaction.
func (s *PostgresCardProgressStore) WithTx(tx *sql.Tx) store.CardProgressStore {
	return &PostgresCardProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
