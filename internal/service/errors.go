package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNegativeTarget indicates a daily goal target below zero.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNegativeTarget = errors.New("goal targets cannot be negative")

	// ErrLessonNotStarted indicates an operation that requires lesson
	// progress was attempted before the lesson was ever started.
	// API layer should map this to HTTP 404 Not Found.
	ErrLessonNotStarted = errors.New("lesson has not been started")

	// ErrRewardFailed indicates the workflow's own write was committed but a
	// follow-up reward step (XP award or daily goal update) failed. The
	// committed state stands; callers should serve the result and report the
	// reward failure separately.
	ErrRewardFailed = errors.New("progress recorded but reward processing failed")
)
