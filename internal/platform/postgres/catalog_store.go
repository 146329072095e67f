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

// PostgresCatalogStore implements the store.CatalogStore interface
// using a PostgreSQL database as the storage backend. All operations are
// read-only; catalog content is seeded by migrations.
type PostgresCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a new PostgreSQL implementation of the
// CatalogStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Ensure PostgresCatalogStore implements store.CatalogStore interface
var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

// GetCategory implements store.CatalogStore.GetCategory
func (s *PostgresCatalogStore) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, icon, color, order_index, created_at
		FROM categories
		WHERE id = $1
	`

	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.OrderIndex, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category",
			slog.String("category_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get category: %w", MapError(err))
	}

	return &c, nil
}

// ListCategories implements store.CatalogStore.ListCategories
func (s *PostgresCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, icon, color, order_index, created_at
		FROM categories
		ORDER BY order_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list categories: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.OrderIndex, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCard implements store.CatalogStore.GetCard
func (s *PostgresCatalogStore) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, category_id, indonesian_text, english_translation,
			pronunciation_guide, difficulty, order_index, created_at
		FROM cards
		WHERE id = $1
	`

	var c domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.CategoryID, &c.IndonesianText, &c.EnglishTranslation,
		&c.PronunciationGuide, &c.Difficulty, &c.OrderIndex, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get card: %w", MapError(err))
	}

	return &c, nil
}

// ListCardsByCategory implements store.CatalogStore.ListCardsByCategory
func (s *PostgresCatalogStore) ListCardsByCategory(
	ctx context.Context,
	categoryID uuid.UUID,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, category_id, indonesian_text, english_translation,
			pronunciation_guide, difficulty, order_index, created_at
		FROM cards
		WHERE category_id = $1
		ORDER BY order_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("category_id", categoryID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list cards: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(
			&c.ID, &c.CategoryID, &c.IndonesianText, &c.EnglishTranslation,
			&c.PronunciationGuide, &c.Difficulty, &c.OrderIndex, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

// CountCardsByCategory implements store.CatalogStore.CountCardsByCategory
func (s *PostgresCatalogStore) CountCardsByCategory(
	ctx context.Context,
	categoryID uuid.UUID,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM cards WHERE category_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		log.Error("failed to count cards",
			slog.String("category_id", categoryID.String()),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to count cards: %w", MapError(err))
	}

	return count, nil
}

// GetLesson implements store.CatalogStore.GetLesson
// The phrase count is computed from the phrases table in the same query.
func (s *PostgresCatalogStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT l.id, l.category_id, l.title, l.description, l.xp_reward, l.order_index,
			(SELECT COUNT(*) FROM phrases p WHERE p.lesson_id = l.id) AS phrase_count,
			l.created_at
		FROM lessons l
		WHERE l.id = $1
	`

	var lesson domain.Lesson
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID, &lesson.CategoryID, &lesson.Title, &lesson.Description,
		&lesson.XPReward, &lesson.OrderIndex, &lesson.PhraseCount, &lesson.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLessonNotFound
		}
		log.Error("failed to get lesson",
			slog.String("lesson_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get lesson: %w", MapError(err))
	}

	return &lesson, nil
}

// ListLessons implements store.CatalogStore.ListLessons
func (s *PostgresCatalogStore) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT l.id, l.category_id, l.title, l.description, l.xp_reward, l.order_index,
			(SELECT COUNT(*) FROM phrases p WHERE p.lesson_id = l.id) AS phrase_count,
			l.created_at
		FROM lessons l
		ORDER BY l.order_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list lessons", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list lessons: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var lessons []domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(
			&lesson.ID, &lesson.CategoryID, &lesson.Title, &lesson.Description,
			&lesson.XPReward, &lesson.OrderIndex, &lesson.PhraseCount, &lesson.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}

	return lessons, nil
}

// WithTx implements store.CatalogStore.WithTx
// It returns a new CatalogStore instance using the provided transaction.
func (s *PostgresCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return &PostgresCatalogStore{
		db:     tx,
		logger: s.logger,
	}
}
