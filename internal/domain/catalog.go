package domain

import (
	"time"

	"github.com/google/uuid"
)

// Catalog types mirror the immutable content definitions (categories, cards,
// lessons, phrases) the engine consumes as read-only reference data. Content
// authoring happens elsewhere; nothing in this module writes these tables.

// Category groups cards and lessons for navigation and progress reporting.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Card is a single flashcard definition.
type Card struct {
	ID                 uuid.UUID  `json:"id"`
	CategoryID         *uuid.UUID `json:"category_id,omitempty"`
	IndonesianText     string     `json:"indonesian_text"`
	EnglishTranslation string     `json:"english_translation"`
	PronunciationGuide string     `json:"pronunciation_guide,omitempty"`
	Difficulty         int        `json:"difficulty"`
	OrderIndex         int        `json:"order_index"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Lesson is a multi-phrase lesson definition. PhraseCount is derived from
// the phrases table when the lesson is loaded.
type Lesson struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	XPReward    int        `json:"xp_reward"`
	OrderIndex  int        `json:"order_index"`
	PhraseCount int        `json:"phrase_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Phrase is one unit of practice inside a lesson.
type Phrase struct {
	ID                 uuid.UUID `json:"id"`
	LessonID           uuid.UUID `json:"lesson_id"`
	IndonesianText     string    `json:"indonesian_text"`
	EnglishTranslation string    `json:"english_translation"`
	OrderIndex         int       `json:"order_index"`
}
