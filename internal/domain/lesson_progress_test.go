package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLessonProgress(t *testing.T) {
	userID := uuid.New()
	lessonID := uuid.New()

	progress, err := NewLessonProgress(userID, lessonID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if progress.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, progress.UserID)
	}
	if progress.LessonID != lessonID {
		t.Errorf("Expected lesson ID %s, got %s", lessonID, progress.LessonID)
	}
	if progress.Status != LessonInProgress {
		t.Errorf("Expected status %q, got %q", LessonInProgress, progress.Status)
	}
	if progress.PhrasesCompleted != 0 {
		t.Errorf("Expected 0 phrases completed, got %d", progress.PhrasesCompleted)
	}
	if progress.StartedAt.IsZero() {
		t.Error("Expected StartedAt to be set")
	}
	if progress.CompletedAt != nil {
		t.Error("Expected CompletedAt to be nil")
	}
}

func TestCompletionPercent(t *testing.T) {
	progress := &LessonProgress{Status: LessonInProgress, PhrasesCompleted: 3}

	if pct := progress.CompletionPercent(10); pct != 30 {
		t.Errorf("Expected 30%%, got %d", pct)
	}

	progress.PhrasesCompleted = 1
	if pct := progress.CompletionPercent(3); pct != 33 {
		t.Errorf("Expected 33%%, got %d", pct)
	}

	// Phrase-less lessons report by status alone.
	if pct := progress.CompletionPercent(0); pct != 0 {
		t.Errorf("Expected 0%% for phrase-less in-progress lesson, got %d", pct)
	}

	progress.Status = LessonCompleted
	if pct := progress.CompletionPercent(0); pct != 100 {
		t.Errorf("Expected 100%% for phrase-less completed lesson, got %d", pct)
	}
}

func TestLessonXPEarned(t *testing.T) {
	testCases := []struct {
		score    int
		xpReward int
		expected int
	}{
		{100, 50, 50},
		{80, 50, 40},
		{0, 50, 0},
		{75, 30, 23}, // round(22.5)
		{50, 25, 13}, // round(12.5)
	}

	for _, tc := range testCases {
		if xp := LessonXPEarned(tc.score, tc.xpReward); xp != tc.expected {
			t.Errorf("LessonXPEarned(%d, %d): expected %d, got %d",
				tc.score, tc.xpReward, tc.expected, xp)
		}
	}
}
