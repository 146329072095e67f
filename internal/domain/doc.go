// Package domain defines the core entities of the learning progress engine:
// learner profiles, per-card and per-lesson progress records, daily goals,
// XP transactions, achievements, and the immutable content catalog types.
//
// Domain types are plain values with validation methods and pure derivation
// functions. They perform no I/O; persistence lives in the store layer and
// orchestration in the service layer.
package domain
