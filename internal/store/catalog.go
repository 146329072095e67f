package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// CatalogStore defines read access to the learning content catalog:
// categories, cards, lessons, and phrase counts. The progress engine never
// writes catalog rows.
type CatalogStore interface {
	// GetCategory retrieves a category by ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// ListCategories retrieves all categories ordered by their display index.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// GetCard retrieves a card by ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListCardsByCategory retrieves the cards in a category ordered by their
	// display index.
	ListCardsByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Card, error)

	// CountCardsByCategory returns the number of cards in a category.
	CountCardsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)

	// GetLesson retrieves a lesson by ID, including its phrase count.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// ListLessons retrieves all lessons ordered by their display index.
	ListLessons(ctx context.Context) ([]domain.Lesson, error)

	// WithTx returns a new CatalogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CatalogStore
}
