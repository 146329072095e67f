package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// XPPerLevel is the fixed amount of XP required to advance one level.
const XPPerLevel = 500

// XP sources recorded on transactions. The source string is part of the
// persisted audit trail, so values here must stay stable.
const (
	XPSourceCardReview     = "card_review"
	XPSourceLessonComplete = "lesson_complete"
	XPSourceAchievement    = "achievement"
	XPSourceManual         = "manual"
)

// Common validation errors for XPTransaction.
var (
	ErrEmptyXPUserID = errors.New("xp transaction user ID cannot be empty")
	ErrEmptyXPSource = errors.New("xp transaction source cannot be empty")
	ErrNonPositiveXP = errors.New("xp transaction amount must be positive")
)

// XPTransaction is an immutable, append-only record of a single XP-earning
// event. The learner's xp_total is derived from (and reconcilable against)
// the sum of their transactions.
type XPTransaction struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Amount      int        `json:"amount"`
	Source      string     `json:"source"`
	SourceID    *uuid.UUID `json:"source_id,omitempty"` // Card, lesson, or achievement that earned the XP
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewXPTransaction creates a new XPTransaction for the given learner.
func NewXPTransaction(userID uuid.UUID, amount int, source string, sourceID *uuid.UUID, description string) (*XPTransaction, error) {
	txn := &XPTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	return txn, nil
}

// Validate checks if the XPTransaction has valid data.
func (t *XPTransaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyXPUserID
	}

	if t.Amount <= 0 {
		return ErrNonPositiveXP
	}

	if t.Source == "" {
		return ErrEmptyXPSource
	}

	return nil
}

// LevelForXP derives a level from a lifetime XP total:
// level = floor(xp_total / XPPerLevel) + 1, so level 1 spans 0-499 XP.
func LevelForXP(xpTotal int) int {
	if xpTotal < 0 {
		return 1
	}
	return xpTotal/XPPerLevel + 1
}

// LevelProgress returns how far (in percent) the learner is through the
// current level: 0 XP -> 0%, 499 XP -> 99.8%, 500 XP -> 0% of level 2.
func LevelProgress(xpTotal int) float64 {
	level := LevelForXP(xpTotal)
	xpInLevel := xpTotal - (level-1)*XPPerLevel
	return float64(xpInLevel) / float64(XPPerLevel) * 100
}

// LevelTitle resolves the display title for a level. The canonical table
// groups levels in pairs; everything from level 9 up is "Master".
func LevelTitle(level int) string {
	switch {
	case level <= 2:
		return "Beginner"
	case level <= 4:
		return "Learner"
	case level <= 6:
		return "Proficient"
	case level <= 8:
		return "Expert"
	default:
		return "Master"
	}
}
