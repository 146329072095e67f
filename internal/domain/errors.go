package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuality is returned when a review quality score is outside [0,5].
	ErrInvalidQuality = errors.New("quality score must be between 0 and 5")

	// ErrInvalidScore is returned when a lesson score is outside [0,100].
	ErrInvalidScore = errors.New("score must be between 0 and 100")

	// ErrInvalidLessonStatus is returned when a lesson progress status is not
	// one of not_started, in_progress, completed.
	ErrInvalidLessonStatus = errors.New("invalid lesson status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
