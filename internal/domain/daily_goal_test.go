package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testGoal(t *testing.T) *DailyGoal {
	t.Helper()

	goal, err := NewDailyGoal(
		uuid.New(),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DefaultGoalTargets(),
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return goal
}

func TestNewDailyGoal(t *testing.T) {
	goal := testGoal(t)

	if goal.LessonsTarget != 1 || goal.CardsTarget != 10 ||
		goal.ChatMinutesTarget != 5 || goal.XPTarget != 50 {
		t.Errorf("Unexpected default targets: %+v", goal)
	}
	if goal.LessonsCompleted != 0 || goal.CardsCompleted != 0 ||
		goal.ChatMinutesCompleted != 0 || goal.XPEarned != 0 {
		t.Errorf("Expected zeroed counters: %+v", goal)
	}
	if goal.AllGoalsMet {
		t.Error("Expected AllGoalsMet false on a fresh goal")
	}
}

func TestNewDailyGoalValidation(t *testing.T) {
	if _, err := NewDailyGoal(uuid.Nil, time.Now(), DefaultGoalTargets()); err != ErrEmptyGoalUserID {
		t.Errorf("Expected ErrEmptyGoalUserID, got %v", err)
	}
	if _, err := NewDailyGoal(uuid.New(), time.Time{}, DefaultGoalTargets()); err != ErrZeroGoalDate {
		t.Errorf("Expected ErrZeroGoalDate, got %v", err)
	}
}

func TestDailyGoalApply(t *testing.T) {
	goal := testGoal(t)

	goal.Apply(GoalDelta{CardsCompleted: 3, XPEarned: 15})
	if goal.CardsCompleted != 3 {
		t.Errorf("Expected 3 cards completed, got %d", goal.CardsCompleted)
	}
	if goal.XPEarned != 15 {
		t.Errorf("Expected 15 XP earned, got %d", goal.XPEarned)
	}
	if goal.AllGoalsMet {
		t.Error("Expected AllGoalsMet false with unmet targets")
	}

	// Counters clamp at zero on negative deltas.
	goal.Apply(GoalDelta{CardsCompleted: -10})
	if goal.CardsCompleted != 0 {
		t.Errorf("Expected cards clamped to 0, got %d", goal.CardsCompleted)
	}
}

func TestDailyGoalAllGoalsMet(t *testing.T) {
	goal := testGoal(t)

	goal.Apply(GoalDelta{
		LessonsCompleted:     1,
		CardsCompleted:       10,
		ChatMinutesCompleted: 5,
		XPEarned:             50,
	})
	if !goal.AllGoalsMet {
		t.Error("Expected AllGoalsMet true when every counter reaches its target")
	}

	// Raising a target drops the flag again after recalculation.
	goal.CardsTarget = 20
	goal.Recalculate()
	if goal.AllGoalsMet {
		t.Error("Expected AllGoalsMet false after raising a target")
	}
}

func TestDailyGoalZeroTargetsAreMet(t *testing.T) {
	goal, err := NewDailyGoal(
		uuid.New(),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		GoalTargets{},
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	goal.Recalculate()
	if !goal.AllGoalsMet {
		t.Error("Expected zero targets to count as met")
	}
}

func TestGoalDeltaIsZero(t *testing.T) {
	if !(GoalDelta{}).IsZero() {
		t.Error("Expected empty delta to be zero")
	}
	if (GoalDelta{XPEarned: 1}).IsZero() {
		t.Error("Expected non-empty delta not to be zero")
	}
}
