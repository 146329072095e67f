package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/store"
)

// MockCatalogStore implements store.CatalogStore for testing
type MockCatalogStore struct {
	// Function fields for customizable behavior
	GetCategoryFn          func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategoriesFn       func(ctx context.Context) ([]domain.Category, error)
	GetCardFn              func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListCardsByCategoryFn  func(ctx context.Context, categoryID uuid.UUID) ([]domain.Card, error)
	CountCardsByCategoryFn func(ctx context.Context, categoryID uuid.UUID) (int, error)
	GetLessonFn            func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ListLessonsFn          func(ctx context.Context) ([]domain.Lesson, error)

	// Data for default implementation
	Categories map[uuid.UUID]*domain.Category
	Cards      map[uuid.UUID]*domain.Card
	Lessons    map[uuid.UUID]*domain.Lesson
	LessonList []domain.Lesson
}

// NewMockCatalogStore creates a new mock store with initialized defaults
func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{
		Categories: make(map[uuid.UUID]*domain.Category),
		Cards:      make(map[uuid.UUID]*domain.Card),
		Lessons:    make(map[uuid.UUID]*domain.Lesson),
	}
}

// GetCategory implements the CatalogStore interface
func (m *MockCatalogStore) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetCategoryFn != nil {
		return m.GetCategoryFn(ctx, id)
	}

	category, exists := m.Categories[id]
	if !exists {
		return nil, store.ErrCategoryNotFound
	}
	return category, nil
}

// ListCategories implements the CatalogStore interface
func (m *MockCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx)
	}

	var result []domain.Category
	for _, category := range m.Categories {
		result = append(result, *category)
	}
	return result, nil
}

// GetCard implements the CatalogStore interface
func (m *MockCatalogStore) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, id)
	}

	card, exists := m.Cards[id]
	if !exists {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

// ListCardsByCategory implements the CatalogStore interface
func (m *MockCatalogStore) ListCardsByCategory(
	ctx context.Context,
	categoryID uuid.UUID,
) ([]domain.Card, error) {
	if m.ListCardsByCategoryFn != nil {
		return m.ListCardsByCategoryFn(ctx, categoryID)
	}

	var result []domain.Card
	for _, card := range m.Cards {
		if card.CategoryID != nil && *card.CategoryID == categoryID {
			result = append(result, *card)
		}
	}
	return result, nil
}

// CountCardsByCategory implements the CatalogStore interface
func (m *MockCatalogStore) CountCardsByCategory(
	ctx context.Context,
	categoryID uuid.UUID,
) (int, error) {
	if m.CountCardsByCategoryFn != nil {
		return m.CountCardsByCategoryFn(ctx, categoryID)
	}

	count := 0
	for _, card := range m.Cards {
		if card.CategoryID != nil && *card.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// GetLesson implements the CatalogStore interface
func (m *MockCatalogStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetLessonFn != nil {
		return m.GetLessonFn(ctx, id)
	}

	lesson, exists := m.Lessons[id]
	if !exists {
		return nil, store.ErrLessonNotFound
	}
	return lesson, nil
}

// ListLessons implements the CatalogStore interface
func (m *MockCatalogStore) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	if m.ListLessonsFn != nil {
		return m.ListLessonsFn(ctx)
	}
	return m.LessonList, nil
}

// WithTx implements the CatalogStore interface
func (m *MockCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return m
}
