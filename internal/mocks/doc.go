// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout
// the application, facilitating consistent and DRY testing across the
// codebase. Instead of defining inline mocks in individual test files, these
// standardized mock implementations can be reused.
//
// Each mock exposes a function field per interface method. When a function
// field is set it takes over that method; otherwise the mock falls back to a
// simple in-memory default backed by maps.
//
//	progressStore := mocks.NewMockCardProgressStore()
//	progressStore.GetFn = func(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardProgress, error) {
//	    return nil, store.ErrCardProgressNotFound
//	}
package mocks
