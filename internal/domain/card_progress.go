package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mastery level bounds and the threshold at which a card counts as mastered
// for category completion purposes.
const (
	MinMasteryLevel   = 0
	MaxMasteryLevel   = 5
	MasteredThreshold = 3
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Common validation errors for CardProgress.
var (
	ErrEmptyProgressUserID  = errors.New("card progress user ID cannot be empty")
	ErrEmptyProgressCardID  = errors.New("card progress card ID cannot be empty")
	ErrInvalidMasteryLevel  = errors.New("mastery level must be between 0 and 5")
	ErrInvalidInterval      = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor    = errors.New("ease factor must be at least 1.3")
	ErrNextReviewBeforeLast = errors.New("next review cannot be before last review")
)

// CardProgress tracks a learner's state for a single flashcard: the 0-5
// mastery score, raw answer counters, and the spaced-repetition schedule
// (ease factor, interval, next review). Keyed by (user, card); created on
// first review and only ever upserted, never deleted.
type CardProgress struct {
	UserID         uuid.UUID `json:"user_id"`
	CardID         uuid.UUID `json:"card_id"`
	MasteryLevel   int       `json:"mastery_level"`
	TimesSeen      int       `json:"times_seen"`
	TimesCorrect   int       `json:"times_correct"`
	TimesIncorrect int       `json:"times_incorrect"`
	EaseFactor     float64   `json:"ease_factor"`
	IntervalDays   int       `json:"interval_days"`
	LastReviewed   time.Time `json:"last_reviewed"`
	NextReview     time.Time `json:"next_review"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCardProgress creates progress for a card the learner has never reviewed.
// The card starts at the default ease factor with a zero interval so it is
// due immediately.
func NewCardProgress(userID, cardID uuid.UUID) (*CardProgress, error) {
	now := time.Now().UTC()
	progress := &CardProgress{
		UserID:       userID,
		CardID:       cardID,
		MasteryLevel: MinMasteryLevel,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		LastReviewed: time.Time{}, // Zero time: never reviewed
		NextReview:   now,         // Due immediately
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the CardProgress has valid data.
func (p *CardProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if p.CardID == uuid.Nil {
		return ErrEmptyProgressCardID
	}

	if p.MasteryLevel < MinMasteryLevel || p.MasteryLevel > MaxMasteryLevel {
		return ErrInvalidMasteryLevel
	}

	if p.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if p.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if !p.LastReviewed.IsZero() && p.NextReview.Before(p.LastReviewed) {
		return ErrNextReviewBeforeLast
	}

	return nil
}

// IsDue reports whether the card should be shown for review. A card with a
// zero NextReview has never been scheduled and is always due.
func (p *CardProgress) IsDue(now time.Time) bool {
	return !p.NextReview.After(now)
}

// IsMastered reports whether the card counts toward category completion.
func (p *CardProgress) IsMastered() bool {
	return p.MasteryLevel >= MasteredThreshold
}

// NextMasteryLevel advances or regresses a mastery level for one review
// outcome, clamped to [MinMasteryLevel, MaxMasteryLevel]. Mastery evolves
// independently of the review schedule.
func NextMasteryLevel(level int, correct bool) int {
	if correct {
		if level >= MaxMasteryLevel {
			return MaxMasteryLevel
		}
		return level + 1
	}
	if level <= MinMasteryLevel {
		return MinMasteryLevel
	}
	return level - 1
}

// CategoryProgress computes the completion percentage for a category:
// round(100 * mastered / total). An empty category reports 0.
func CategoryProgress(mastered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(mastered)/float64(total)*100 + 0.5)
}
