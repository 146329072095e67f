package srs

import (
	"errors"
	"time"

	"github.com/bahasabuddy/api/internal/domain"
)

// Common errors
var (
	ErrNilProgress = errors.New("card progress cannot be nil")
	ErrBadQuality  = errors.New("quality score must be between 0 and 5")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// CalculateNextReview computes new card progress for one review with the
	// given quality score. The input progress is never mutated.
	CalculateNextReview(
		progress *domain.CardProgress,
		quality int,
		now time.Time,
	) (*domain.CardProgress, error)

	// QualityForOutcome maps a binary correctness flag onto the quality
	// scale for callers that do not grade recalls themselves.
	QualityForOutcome(correct bool) int
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface. It returns a new
// CardProgress with the updated schedule, mastery level, and answer counters;
// the caller persists it.
func (s *defaultService) CalculateNextReview(
	progress *domain.CardProgress,
	quality int,
	now time.Time,
) (*domain.CardProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if quality < MinQuality || quality > MaxQuality {
		return nil, ErrBadQuality
	}

	schedule := calculateSchedule(progress.EaseFactor, progress.IntervalDays, quality, now, s.params)
	correct := quality >= PassThreshold

	updated := *progress
	updated.MasteryLevel = domain.NextMasteryLevel(progress.MasteryLevel, correct)
	updated.TimesSeen = progress.TimesSeen + 1
	if correct {
		updated.TimesCorrect = progress.TimesCorrect + 1
	} else {
		updated.TimesIncorrect = progress.TimesIncorrect + 1
	}
	updated.EaseFactor = schedule.EaseFactor
	updated.IntervalDays = schedule.IntervalDays
	updated.LastReviewed = now
	updated.NextReview = schedule.NextReview
	updated.UpdatedAt = now

	return &updated, nil
}

// QualityForOutcome implements the Service interface.
func (s *defaultService) QualityForOutcome(correct bool) int {
	if correct {
		return s.params.CorrectQuality
	}
	return s.params.IncorrectQuality
}
