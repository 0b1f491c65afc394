package rbc

import "errors"

// ErrNoRankings is returned when the collection of input rankings is empty.
var ErrNoRankings = errors.New("at least one ranking is required")

// ErrInvalidPersistence is returned when persistence is NaN or outside [0, 1).
var ErrInvalidPersistence = errors.New("persistence must be in [0, 1)")

// ErrDuplicateItem is returned when an item appears more than once within a
// single input ranking.
var ErrDuplicateItem = errors.New("duplicate item in ranking")

// ErrInvalidWeights is returned when the ranking weight vector does not match
// the number of rankings or contains a negative or non-finite entry.
var ErrInvalidWeights = errors.New("invalid ranking weights")

// DefaultPersistence is the persistence used when callers have no opinion.
// It corresponds to an expected examination depth of 10 ranks per list.
const DefaultPersistence = 0.9

// ScoredItem is one entry of a fused ranking.
type ScoredItem[K comparable] struct {
	// Item is the identifier exactly as it appeared in the input rankings.
	Item K

	// Score is the accumulated rank-biased weight across all rankings.
	// Higher scores indicate stronger consensus placement.
	Score float64
}
