package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// LessonProgressStore defines the interface for lesson progress persistence.
type LessonProgressStore interface {
	// Get retrieves lesson progress by the combination of user ID and lesson ID.
	// Returns ErrLessonProgressNotFound if the entry does not exist.
	Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)

	// ListByUser retrieves all lesson progress entries for a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LessonProgress, error)

	// Start inserts an in_progress entry for the (user, lesson) pair or,
	// when one already exists, returns the stored entry untouched. Starting
	// is idempotent and never demotes a completed lesson.
	Start(ctx context.Context, progress *domain.LessonProgress) (*domain.LessonProgress, error)

	// SetPhrasesCompleted updates the phrase counter for an in_progress
	// lesson. Completed lessons are left untouched and the stored entry is
	// returned as is.
	// Returns ErrLessonProgressNotFound if the entry does not exist.
	SetPhrasesCompleted(ctx context.Context, userID, lessonID uuid.UUID, phrases int) (*domain.LessonProgress, error)

	// CompleteIfNotCompleted marks the lesson completed with the given
	// score and XP, guarded so a lesson completes at most once. The bool
	// result reports whether this call performed the transition; when it is
	// false the returned progress is the previously stored completion.
	// Returns ErrLessonProgressNotFound if the entry does not exist.
	CompleteIfNotCompleted(
		ctx context.Context,
		userID, lessonID uuid.UUID,
		score, xpEarned int,
	) (*domain.LessonProgress, bool, error)

	// CountCompleted returns the number of lessons the user has completed.
	CountCompleted(ctx context.Context, userID uuid.UUID) (int, error)

	// WithTx returns a new LessonProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LessonProgressStore
}
