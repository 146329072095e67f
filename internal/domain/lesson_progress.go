package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// LessonStatus represents a learner's position in the lesson state machine.
type LessonStatus string

// Lesson progress states. The machine only moves forward:
// not_started -> in_progress -> completed. Completed is terminal.
const (
	LessonNotStarted LessonStatus = "not_started"
	LessonInProgress LessonStatus = "in_progress"
	LessonCompleted  LessonStatus = "completed"
)

// Common validation errors for LessonProgress.
var (
	ErrEmptyLessonUserID = errors.New("lesson progress user ID cannot be empty")
	ErrEmptyLessonID     = errors.New("lesson progress lesson ID cannot be empty")
	ErrNegativePhrases   = errors.New("phrases completed cannot be negative")
)

// LessonProgress tracks a learner's progress through a multi-phrase lesson.
// Keyed by (user, lesson); created lazily on first start. XPEarned is set
// exactly once, at completion.
type LessonProgress struct {
	UserID           uuid.UUID    `json:"user_id"`
	LessonID         uuid.UUID    `json:"lesson_id"`
	Status           LessonStatus `json:"status"`
	PhrasesCompleted int          `json:"phrases_completed"`
	Score            int          `json:"score"`
	XPEarned         int          `json:"xp_earned"`
	StartedAt        *time.Time   `json:"started_at,omitempty"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewLessonProgress creates an in_progress record for a lesson the learner
// is starting for the first time.
func NewLessonProgress(userID, lessonID uuid.UUID) (*LessonProgress, error) {
	now := time.Now().UTC()
	progress := &LessonProgress{
		UserID:    userID,
		LessonID:  lessonID,
		Status:    LessonInProgress,
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the LessonProgress has valid data.
func (p *LessonProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyLessonUserID
	}

	if p.LessonID == uuid.Nil {
		return ErrEmptyLessonID
	}

	switch p.Status {
	case LessonNotStarted, LessonInProgress, LessonCompleted:
	default:
		return ErrInvalidLessonStatus
	}

	if p.PhrasesCompleted < 0 {
		return ErrNegativePhrases
	}

	if p.Score < 0 || p.Score > 100 {
		return ErrInvalidScore
	}

	return nil
}

// CompletionPercent returns the display percentage for the lesson. When the
// lesson has no phrases the percentage falls back to 100 for completed
// lessons and 0 otherwise.
func (p *LessonProgress) CompletionPercent(totalPhrases int) int {
	if totalPhrases <= 0 {
		if p.Status == LessonCompleted {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(p.PhrasesCompleted) / float64(totalPhrases) * 100))
}

// LessonXPEarned computes the XP awarded for completing a lesson with the
// given score: round(score/100 * xpReward).
func LessonXPEarned(score, xpReward int) int {
	return int(math.Round(float64(score) / 100 * float64(xpReward)))
}
