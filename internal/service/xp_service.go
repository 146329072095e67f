package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
	"github.com/bahasabuddy/api/internal/events"
	"github.com/bahasabuddy/api/internal/platform/logger"
	"github.com/bahasabuddy/api/internal/store"
)

// XPServiceError is a custom error type for XP service errors.
type XPServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for XPServiceError.
func (e *XPServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xp service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("xp service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *XPServiceError) Unwrap() error {
	return e.Err
}

// NewXPServiceError creates a new XPServiceError.
func NewXPServiceError(operation, message string, err error) *XPServiceError {
	return &XPServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// XPAwardedPayload is the event payload for events.EventXPAwarded.
type XPAwardedPayload struct {
	Amount  int    `json:"amount"`
	Source  string `json:"source"`
	XPTotal int    `json:"xp_total"`
	Level   int    `json:"level"`
}

// defaultDisplayName is used when a profile is provisioned on first contact;
// learners rename themselves through the profile endpoint later.
const defaultDisplayName = "Learner"

// XPService provides the append-only XP ledger operations.
// Profiles are provisioned lazily: the first operation for an authenticated
// user that has no profile row creates one.
type XPService interface {
	// AwardXP appends a transaction for the learner and returns the
	// updated profile with the new totals. The amount must be positive.
	AwardXP(
		ctx context.Context,
		userID uuid.UUID,
		amount int,
		source string,
		sourceID *uuid.UUID,
		description string,
	) (*domain.Profile, error)

	// GetProfile retrieves the learner's profile.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// ListRecentTransactions returns the learner's latest XP transactions,
	// newest first.
	ListRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.XPTransaction, error)
}

// xpServiceImpl implements the XPService interface.
type xpServiceImpl struct {
	profileStore store.ProfileStore
	emitter      events.EventEmitter
	logger       *slog.Logger
}

// NewXPService creates a new XPService.
// It returns an error if any of the required dependencies are nil.
func NewXPService(
	profileStore store.ProfileStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (XPService, error) {
	if profileStore == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &xpServiceImpl{
		profileStore: profileStore,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "xp_service")),
	}, nil
}

// AwardXP implements XPService.AwardXP
func (s *xpServiceImpl) AwardXP(
	ctx context.Context,
	userID uuid.UUID,
	amount int,
	source string,
	sourceID *uuid.UUID,
	description string,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	txn, err := domain.NewXPTransaction(userID, amount, source, sourceID, description)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileStore.AddXP(ctx, txn)
	if errors.Is(err, store.ErrProfileNotFound) {
		if err = s.provisionProfile(ctx, userID); err != nil {
			return nil, err
		}
		profile, err = s.profileStore.AddXP(ctx, txn)
	}
	if err != nil {
		return nil, NewXPServiceError("award", "failed to record xp transaction", err)
	}

	log.Info("xp awarded",
		slog.String("user_id", userID.String()),
		slog.Int("amount", amount),
		slog.String("source", source),
		slog.Int("xp_total", profile.XPTotal),
		slog.Int("level", profile.Level()))

	event, err := events.NewProgressEvent(events.EventXPAwarded, userID, XPAwardedPayload{
		Amount:  amount,
		Source:  source,
		XPTotal: profile.XPTotal,
		Level:   profile.Level(),
	})
	if err == nil {
		if emitErr := s.emitter.EmitEvent(ctx, event); emitErr != nil {
			// Handlers failing must not undo a recorded award.
			log.Warn("xp awarded event handling failed",
				slog.String("user_id", userID.String()),
				slog.String("error", emitErr.Error()))
		}
	}

	return profile, nil
}

// GetProfile implements XPService.GetProfile
func (s *xpServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileStore.Get(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		if err = s.provisionProfile(ctx, userID); err != nil {
			return nil, err
		}
		profile, err = s.profileStore.Get(ctx, userID)
	}
	if err != nil {
		return nil, NewXPServiceError("get_profile", "failed to load profile", err)
	}
	return profile, nil
}

// provisionProfile creates the learner's profile row on first contact. A
// duplicate error means a concurrent request won the race, which is fine;
// the caller re-reads the row either way.
func (s *xpServiceImpl) provisionProfile(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := domain.NewProfile(userID, defaultDisplayName)
	if err != nil {
		return NewXPServiceError("provision", "failed to build profile", err)
	}

	if err := s.profileStore.Create(ctx, profile); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil
		}
		return NewXPServiceError("provision", "failed to create profile", err)
	}

	log.Info("profile provisioned", slog.String("user_id", userID.String()))
	return nil
}

// ListRecentTransactions implements XPService.ListRecentTransactions
func (s *xpServiceImpl) ListRecentTransactions(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.XPTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.profileStore.ListXPTransactions(ctx, userID, limit)
	if err != nil {
		return nil, NewXPServiceError("list_transactions", "failed to list xp transactions", err)
	}
	return txns, nil
}
