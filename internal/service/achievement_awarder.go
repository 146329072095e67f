package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// AchievementAwarder listens for progress events and awards any achievements
// whose requirements the learner now satisfies. It implements
// events.EventHandler so services stay unaware of achievement rules.
type AchievementAwarder struct {
	db                  *sql.DB
	achievementStore    store.AchievementStore
	profileStore        store.ProfileStore
	cardProgressStore   store.CardProgressStore
	lessonProgressStore store.LessonProgressStore
	logger              *slog.Logger
}

// NewAchievementAwarder creates a new AchievementAwarder.
// db may be nil, in which case awards and their XP bonuses are written
// through the bare stores instead of one transaction; production wiring
// always passes the database handle.
// It returns an error if any of the required store dependencies are nil.
func NewAchievementAwarder(
	db *sql.DB,
	achievementStore store.AchievementStore,
	profileStore store.ProfileStore,
	cardProgressStore store.CardProgressStore,
	lessonProgressStore store.LessonProgressStore,
	logger *slog.Logger,
) (*AchievementAwarder, error) {
	if achievementStore == nil {
		return nil, fmt.Errorf("achievement store cannot be nil")
	}
	if profileStore == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if cardProgressStore == nil {
		return nil, fmt.Errorf("card progress store cannot be nil")
	}
	if lessonProgressStore == nil {
		return nil, fmt.Errorf("lesson progress store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &AchievementAwarder{
		db:                  db,
		achievementStore:    achievementStore,
		profileStore:        profileStore,
		cardProgressStore:   cardProgressStore,
		lessonProgressStore: lessonProgressStore,
		logger:              logger.With(slog.String("component", "achievement_awarder")),
	}, nil
}

// Ensure AchievementAwarder implements events.EventHandler interface
var _ events.EventHandler = (*AchievementAwarder)(nil)

// HandleEvent implements events.EventHandler.
// Every progress event triggers a requirement sweep for its learner. Awards
// are idempotent at the store level, so re-checking is harmless.
func (a *AchievementAwarder) HandleEvent(ctx context.Context, event *events.ProgressEvent) error {
	log := logger.FromContextOrDefault(ctx, a.logger)

	achievements, err := a.achievementStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list achievements: %w", err)
	}
	if len(achievements) == 0 {
		return nil
	}

	profile, err := a.profileStore.Get(ctx, event.UserID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			// Nothing to award without a profile.
			return nil
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	for i := range achievements {
		met, err := a.requirementMet(ctx, &achievements[i], profile)
		if err != nil {
			log.Warn("failed to evaluate achievement requirement",
				slog.String("user_id", event.UserID.String()),
				slog.String("achievement", achievements[i].Name),
				slog.String("error", err.Error()))
			continue
		}
		if !met {
			continue
		}

		awarded, err := a.grantAchievement(ctx, event.UserID, &achievements[i])
		if err != nil {
			log.Warn("failed to award achievement",
				slog.String("user_id", event.UserID.String()),
				slog.String("achievement", achievements[i].Name),
				slog.String("error", err.Error()))
			continue
		}
		if !awarded {
			continue
		}

		log.Info("achievement earned",
			slog.String("user_id", event.UserID.String()),
			slog.String("achievement", achievements[i].Name))
	}

	return nil
}

// grantAchievement records the award and its XP bonus in one transaction so
// a learner never ends up with the badge but not the bonus. Without a
// database handle it falls back to the bare stores.
func (a *AchievementAwarder) grantAchievement(
	ctx context.Context,
	userID uuid.UUID,
	achievement *domain.Achievement,
) (bool, error) {
	if a.db == nil {
		return a.grantWith(ctx, a.achievementStore, a.profileStore, userID, achievement)
	}

	var awarded bool
	err := store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		var grantErr error
		awarded, grantErr = a.grantWith(
			ctx,
			a.achievementStore.WithTx(tx),
			a.profileStore.WithTx(tx),
			userID,
			achievement,
		)
		return grantErr
	})
	if err != nil {
		return false, err
	}
	return awarded, nil
}

// grantWith performs the award through the given stores. The XP bonus goes
// straight to the profile store rather than through XPService so the award
// does not emit another round of events.
func (a *AchievementAwarder) grantWith(
	ctx context.Context,
	achievements store.AchievementStore,
	profiles store.ProfileStore,
	userID uuid.UUID,
	achievement *domain.Achievement,
) (bool, error) {
	awarded, err := achievements.Award(ctx, userID, achievement.ID)
	if err != nil || !awarded {
		return awarded, err
	}

	if achievement.XPReward > 0 {
		txn, err := domain.NewXPTransaction(
			userID,
			achievement.XPReward,
			domain.XPSourceAchievement,
			&achievement.ID,
			fmt.Sprintf("Achievement: %s", achievement.Name),
		)
		if err != nil {
			return false, fmt.Errorf("build xp transaction: %w", err)
		}
		if _, err := profiles.AddXP(ctx, txn); err != nil {
			return false, fmt.Errorf("grant reward xp: %w", err)
		}
	}

	return true, nil
}

// requirementMet checks one achievement's requirement against the learner's
// current statistics.
func (a *AchievementAwarder) requirementMet(
	ctx context.Context,
	achievement *domain.Achievement,
	profile *domain.Profile,
) (bool, error) {
	switch achievement.RequirementType {
	case domain.RequirementXPTotal:
		return profile.XPTotal >= achievement.RequirementValue, nil

	case domain.RequirementStreakDays:
		return profile.CurrentStreak >= achievement.RequirementValue, nil

	case domain.RequirementLessonsCompleted:
		count, err := a.lessonProgressStore.CountCompleted(ctx, profile.ID)
		if err != nil {
			return false, err
		}
		return count >= achievement.RequirementValue, nil

	case domain.RequirementCardsMastered:
		count, err := a.cardProgressStore.CountMastered(ctx, profile.ID, uuid.Nil)
		if err != nil {
			return false, err
		}
		return count >= achievement.RequirementValue, nil

	default:
		return false, fmt.Errorf("unknown requirement type %q", achievement.RequirementType)
	}
}
