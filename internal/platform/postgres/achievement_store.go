package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// PostgresAchievementStore implements the store.AchievementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAchievementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAchievementStore creates a new PostgreSQL implementation of the
// AchievementStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAchievementStore(db store.DBTX, logger *slog.Logger) *PostgresAchievementStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAchievementStore{
		db:     db,
		logger: logger.With(slog.String("component", "achievement_store")),
	}
}

// Ensure PostgresAchievementStore implements store.AchievementStore interface
var _ store.AchievementStore = (*PostgresAchievementStore)(nil)

// ListAll implements store.AchievementStore.ListAll
func (s *PostgresAchievementStore) ListAll(ctx context.Context) ([]domain.Achievement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, icon, category, xp_reward,
			requirement_type, requirement_value, is_secret, order_index
		FROM achievements
		ORDER BY order_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list achievements",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list achievements: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var achievements []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.Icon,
			&a.Category,
			&a.XPReward,
			&a.RequirementType,
			&a.RequirementValue,
			&a.IsSecret,
			&a.OrderIndex,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}

	return achievements, nil
}

// ListEarned implements store.AchievementStore.ListEarned
func (s *PostgresAchievementStore) ListEarned(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.UserAchievement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, achievement_id, earned_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY earned_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list earned achievements",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list earned achievements: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var earned []domain.UserAchievement
	for rows.Next() {
		var ua domain.UserAchievement
		if err := rows.Scan(&ua.UserID, &ua.AchievementID, &ua.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan earned achievement: %w", err)
		}
		earned = append(earned, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating earned achievements: %w", err)
	}

	return earned, nil
}

// Award implements store.AchievementStore.Award
// ON CONFLICT DO NOTHING makes repeated awards harmless; the rows-affected
// count tells the caller whether this call was the first.
func (s *PostgresAchievementStore) Award(
	ctx context.Context,
	userID, achievementID uuid.UUID,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_achievements (user_id, achievement_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, userID, achievementID, time.Now().UTC())
	if err != nil {
		log.Error("failed to award achievement",
			slog.String("user_id", userID.String()),
			slog.String("achievement_id", achievementID.String()),
			slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to award achievement: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info("achievement awarded",
			slog.String("user_id", userID.String()),
			slog.String("achievement_id", achievementID.String()))
	}

	return rowsAffected > 0, nil
}

// WithTx implements store.AchievementStore.WithTx
// It returns a new AchievementStore instance using the provided transaction.
func (s *PostgresAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore {
	return &PostgresAchievementStore{
		db:     tx,
		logger: s.logger,
	}
}
