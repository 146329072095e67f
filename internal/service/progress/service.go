// Package progress coordinates the review workflow across the scheduling
// algorithm, the progress stores, the XP ledger, and daily goals. It is the
// single entry point handlers use for card reviews and category progress.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/service"
)

// Common error types for ProgressService
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrRewardFailed indicates the review itself was recorded but one of
	// the follow-up rewards (XP award or goal update) failed. The review
	// outcome stands; callers should surface the progress and report the
	// reward failure separately. Shared with the lesson completion
	// workflow so handlers check a single sentinel.
	ErrRewardFailed = service.ErrRewardFailed
)

// ReviewResult is everything a recorded review produced: the new card state,
// the XP granted, and the learner's updated profile and daily goal. Profile
// and Goal are nil when reward processing failed.
type ReviewResult struct {
	Progress  *domain.CardProgress `json:"progress"`
	XPAwarded int                  `json:"xp_awarded"`
	Profile   *domain.Profile      `json:"profile,omitempty"`
	Goal      *domain.DailyGoal    `json:"goal,omitempty"`
}

// CategorySummary reports a learner's standing in one category.
type CategorySummary struct {
	CategoryID      uuid.UUID `json:"category_id"`
	TotalCards      int       `json:"total_cards"`
	MasteredCards   int       `json:"mastered_cards"`
	ProgressPercent int       `json:"progress_percent"`
}

// ProgressService coordinates the card review workflow.
type ProgressService interface {
	// GetReviewQueue returns the cards due for review, never-seen cards
	// first, optionally restricted to one category. Pass uuid.Nil as
	// categoryID for all categories. Returns ErrNoCardsDue when nothing
	// is due.
	GetReviewQueue(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]domain.Card, error)

	// RecordCardReview processes one review with the given quality score
	// (0-5): it reschedules the card, adjusts mastery, persists the new
	// state, then, for a passing quality, grants review XP and credits
	// the daily goal. Failed reviews reschedule only.
	//
	// The card state is committed before rewards run. If a reward step
	// fails the returned error wraps ErrRewardFailed and the result still
	// carries the persisted progress.
	RecordCardReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		quality int,
		now time.Time,
	) (*ReviewResult, error)

	// RecordCardReviewOutcome is RecordCardReview for callers that only
	// know whether the answer was correct.
	RecordCardReviewOutcome(
		ctx context.Context,
		userID, cardID uuid.UUID,
		correct bool,
		now time.Time,
	) (*ReviewResult, error)

	// GetCategoryProgress reports how much of a category the learner has
	// mastered. An empty category reports zero percent.
	GetCategoryProgress(ctx context.Context, userID, categoryID uuid.UUID) (*CategorySummary, error)
}

// ServiceError wraps errors from the progress service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
