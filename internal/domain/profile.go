package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Profile.
var (
	ErrEmptyProfileID = errors.New("profile ID cannot be empty")
	ErrNegativeXP     = errors.New("xp totals cannot be negative")
)

// Profile holds a learner's gamification state: lifetime and daily XP,
// practice streaks, and display information. A profile is exclusively owned
// by its learner; XP fields are mutated only through the ledger's atomic
// AddXP operation, never by client-side arithmetic.
type Profile struct {
	ID               uuid.UUID  `json:"id"`
	DisplayName      string     `json:"display_name"`
	XPTotal          int        `json:"xp_total"`  // Lifetime XP, monotonic non-decreasing
	XPToday          int        `json:"xp_today"`  // Resets when last_practice_date rolls over
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastPracticeDate *time.Time `json:"last_practice_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewProfile creates a new Profile for the given learner with zeroed counters.
func NewProfile(id uuid.UUID, displayName string) (*Profile, error) {
	now := time.Now().UTC()
	profile := &Profile{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}

	if p.XPTotal < 0 || p.XPToday < 0 {
		return ErrNegativeXP
	}

	return nil
}

// Level derives the learner's level from lifetime XP.
func (p *Profile) Level() int {
	return LevelForXP(p.XPTotal)
}
