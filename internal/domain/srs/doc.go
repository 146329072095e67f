// Package srs implements the spaced-repetition scheduling algorithm, an
// SM-2 variant driven by a 0-5 quality score. The calculation functions are
// pure and deterministic; the Service interface wraps them with validation
// and the immutable-update pattern used by the rest of the engine.
package srs
