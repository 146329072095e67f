package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewXPTransaction(t *testing.T) {
	userID := uuid.New()
	sourceID := uuid.New()

	txn, err := NewXPTransaction(userID, 5, XPSourceCardReview, &sourceID, "Card review")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if txn.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, txn.UserID)
	}
	if txn.Amount != 5 {
		t.Errorf("Expected amount 5, got %d", txn.Amount)
	}
	if txn.ID == uuid.Nil {
		t.Error("Expected a generated transaction ID")
	}
	if txn.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestNewXPTransactionValidation(t *testing.T) {
	if _, err := NewXPTransaction(uuid.Nil, 5, XPSourceManual, nil, ""); err != ErrEmptyXPUserID {
		t.Errorf("Expected ErrEmptyXPUserID, got %v", err)
	}

	if _, err := NewXPTransaction(uuid.New(), 0, XPSourceManual, nil, ""); err != ErrNonPositiveXP {
		t.Errorf("Expected ErrNonPositiveXP for zero amount, got %v", err)
	}

	if _, err := NewXPTransaction(uuid.New(), -10, XPSourceManual, nil, ""); err != ErrNonPositiveXP {
		t.Errorf("Expected ErrNonPositiveXP for negative amount, got %v", err)
	}

	if _, err := NewXPTransaction(uuid.New(), 5, "", nil, ""); err != ErrEmptyXPSource {
		t.Errorf("Expected ErrEmptyXPSource, got %v", err)
	}
}

func TestLevelForXP(t *testing.T) {
	testCases := []struct {
		xpTotal  int
		expected int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{4500, 10},
		{-50, 1},
	}

	for _, tc := range testCases {
		if level := LevelForXP(tc.xpTotal); level != tc.expected {
			t.Errorf("LevelForXP(%d): expected %d, got %d", tc.xpTotal, tc.expected, level)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	if progress := LevelProgress(0); progress != 0 {
		t.Errorf("Expected 0%% at 0 XP, got %v", progress)
	}
	if progress := LevelProgress(250); progress != 50 {
		t.Errorf("Expected 50%% at 250 XP, got %v", progress)
	}
	if progress := LevelProgress(500); progress != 0 {
		t.Errorf("Expected 0%% at the start of level 2, got %v", progress)
	}
	if progress := LevelProgress(499); progress != 99.8 {
		t.Errorf("Expected 99.8%% at 499 XP, got %v", progress)
	}
}

func TestLevelTitle(t *testing.T) {
	testCases := []struct {
		level    int
		expected string
	}{
		{1, "Beginner"},
		{2, "Beginner"},
		{3, "Learner"},
		{4, "Learner"},
		{5, "Proficient"},
		{6, "Proficient"},
		{7, "Expert"},
		{8, "Expert"},
		{9, "Master"},
		{42, "Master"},
	}

	for _, tc := range testCases {
		if title := LevelTitle(tc.level); title != tc.expected {
			t.Errorf("LevelTitle(%d): expected %q, got %q", tc.level, tc.expected, title)
		}
	}
}
