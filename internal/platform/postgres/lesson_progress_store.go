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

// PostgresLessonProgressStore implements the store.LessonProgressStore
// interface using a PostgreSQL database as the storage backend.
type PostgresLessonProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLessonProgressStore creates a new PostgreSQL implementation of
// the LessonProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLessonProgressStore(db store.DBTX, logger *slog.Logger) *PostgresLessonProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLessonProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "lesson_progress_store")),
	}
}

// Ensure PostgresLessonProgressStore implements store.LessonProgressStore interface
var _ store.LessonProgressStore = (*PostgresLessonProgressStore)(nil)

const lessonProgressColumns = `user_id, lesson_id, status, phrases_completed, score,
	xp_earned, started_at, completed_at, created_at, updated_at`

func scanLessonProgress(row interface{ Scan(...any) error }) (*domain.LessonProgress, error) {
	var p domain.LessonProgress
	err := row.Scan(
		&p.UserID,
		&p.LessonID,
		&p.Status,
		&p.PhrasesCompleted,
		&p.Score,
		&p.XPEarned,
		&p.StartedAt,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get implements store.LessonProgressStore.Get
// Returns store.ErrLessonProgressNotFound if the entry does not exist.
func (s *PostgresLessonProgressStore) Get(
	ctx context.Context,
	userID, lessonID uuid.UUID,
) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + lessonProgressColumns + `
		FROM lesson_progress
		WHERE user_id = $1 AND lesson_id = $2
	`

	progress, err := scanLessonProgress(s.db.QueryRowContext(ctx, query, userID, lessonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLessonProgressNotFound
		}
		log.Error("failed to get lesson progress",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get lesson progress: %w", MapError(err))
	}

	return progress, nil
}

// ListByUser implements store.LessonProgressStore.ListByUser
func (s *PostgresLessonProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + lessonProgressColumns + `
		FROM lesson_progress
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list lesson progress",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list lesson progress: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.LessonProgress
	for rows.Next() {
		progress, err := scanLessonProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		entries = append(entries, *progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson progress: %w", err)
	}

	return entries, nil
}

// Start implements store.LessonProgressStore.Start
// ON CONFLICT DO NOTHING makes starting idempotent; when the insert is a
// no-op the stored row is fetched and returned, whatever its status.
func (s *PostgresLessonProgressStore) Start(
	ctx context.Context,
	progress *domain.LessonProgress,
) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("lesson progress validation failed during start",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("lesson_id", progress.LessonID.String()))
		return nil, err
	}

	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, status, phrases_completed,
			score, xp_earned, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, lesson_id) DO NOTHING
		RETURNING ` + lessonProgressColumns + `
	`

	stored, err := scanLessonProgress(s.db.QueryRowContext(
		ctx,
		query,
		progress.UserID,
		progress.LessonID,
		progress.Status,
		progress.PhrasesCompleted,
		progress.Score,
		progress.XPEarned,
		progress.StartedAt,
		progress.CompletedAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to start lesson progress",
			slog.String("user_id", progress.UserID.String()),
			slog.String("lesson_id", progress.LessonID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to start lesson progress: %w", MapError(err))
	}

	// Conflict path: the row already existed, return it untouched.
	return s.Get(ctx, progress.UserID, progress.LessonID)
}

// SetPhrasesCompleted implements store.LessonProgressStore.SetPhrasesCompleted
// The status guard keeps completed lessons frozen.
func (s *PostgresLessonProgressStore) SetPhrasesCompleted(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	phrases int,
) (*domain.LessonProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE lesson_progress
		SET phrases_completed = $3, updated_at = $4
		WHERE user_id = $1 AND lesson_id = $2 AND status <> 'completed'
		RETURNING ` + lessonProgressColumns + `
	`

	progress, err := scanLessonProgress(s.db.QueryRowContext(
		ctx, query, userID, lessonID, phrases, time.Now().UTC(),
	))
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to set phrases completed",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to set phrases completed: %w", MapError(err))
	}

	// Either the row does not exist or the lesson is already completed.
	// Get distinguishes the two.
	return s.Get(ctx, userID, lessonID)
}

// CompleteIfNotCompleted implements store.LessonProgressStore.CompleteIfNotCompleted
// The status guard in the WHERE clause is what makes completion happen at
// most once even under concurrent requests; the database picks exactly one
// winner and every other caller sees zero rows updated.
func (s *PostgresLessonProgressStore) CompleteIfNotCompleted(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	score, xpEarned int,
) (*domain.LessonProgress, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		UPDATE lesson_progress
		SET status = 'completed', score = $3, xp_earned = $4,
			completed_at = $5, updated_at = $5
		WHERE user_id = $1 AND lesson_id = $2 AND status <> 'completed'
		RETURNING ` + lessonProgressColumns + `
	`

	progress, err := scanLessonProgress(s.db.QueryRowContext(
		ctx, query, userID, lessonID, score, xpEarned, now,
	))
	if err == nil {
		log.Debug("lesson completed",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.Int("score", score),
			slog.Int("xp_earned", xpEarned))
		return progress, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to complete lesson",
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()),
			slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to complete lesson: %w", MapError(err))
	}

	// Zero rows: already completed, or never started. Return the stored row
	// so callers can serve the prior completion.
	stored, err := s.Get(ctx, userID, lessonID)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// CountCompleted implements store.LessonProgressStore.CountCompleted
func (s *PostgresLessonProgressStore) CountCompleted(
	ctx context.Context,
	userID uuid.UUID,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM lesson_progress
		WHERE user_id = $1 AND status = 'completed'
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		log.Error("failed to count completed lessons",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count completed lessons: %w", MapError(err))
	}

	return count, nil
}

// WithTx implements store.LessonProgressStore.WithTx
// It returns a new LessonProgressStore instance using the provided transaction.
func (s *PostgresLessonProgressStore) WithTx(tx *sql.Tx) store.LessonProgressStore {
	return &PostgresLessonProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
