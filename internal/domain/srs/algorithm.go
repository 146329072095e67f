package srs

import (
	"math"
	"time"
)

// Schedule is the outcome of one scheduling calculation: the card's new ease
// factor, its new interval, and the moment it next comes due.
type Schedule struct {
	EaseFactor   float64
	IntervalDays int
	NextReview   time.Time
}

// calculateNewEaseFactor adjusts the ease factor for a review with the given
// quality score using the SM-2 formula:
//
//	ease' = ease + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// A perfect recall (q=5) raises the ease factor by 0.1; poorer recalls lower
// it progressively. The result is clamped at params.MinEaseFactor so the
// interval growth never collapses entirely, even after repeated failures.
func calculateNewEaseFactor(ease float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEase := ease + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if newEase < params.MinEaseFactor {
		newEase = params.MinEaseFactor
	}
	return newEase
}

// calculateNewInterval determines the next interval in days.
//
// A failed recall (quality below PassThreshold) resets the interval to the
// lapse interval; the ease factor still takes the penalty computed above.
// Successful recalls follow the SM-2 ladder: a new card (interval 0) moves
// to one day, a one-day card moves to six days, and anything longer is
// multiplied by the new ease factor and rounded to the nearest whole day.
func calculateNewInterval(interval, quality int, newEase float64, params *Params) int {
	if quality < PassThreshold {
		return params.LapseIntervalDays
	}

	switch {
	case interval == 0:
		return params.FirstIntervalDays
	case interval == 1:
		return params.SecondIntervalDays
	default:
		return int(math.Round(float64(interval) * newEase))
	}
}

// calculateSchedule runs the full scheduling calculation for one review.
// The next review date is day-granular: now plus the new interval, with no
// sub-day precision requirement.
func calculateSchedule(ease float64, interval, quality int, now time.Time, params *Params) Schedule {
	newEase := calculateNewEaseFactor(ease, quality, params)
	newInterval := calculateNewInterval(interval, quality, newEase, params)

	return Schedule{
		EaseFactor:   newEase,
		IntervalDays: newInterval,
		NextReview:   now.AddDate(0, 0, newInterval),
	}
}
