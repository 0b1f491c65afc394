// Package rbc implements Rank-Biased Centroids (RBC) fusion of ranked lists.
//
// RBC combines N ranked lists over a possibly-overlapping item universe into
// a single consensus ranking with per-item scores. Each list is read through
// the lens of a notional reader who examines rank 1, then continues to the
// next rank with probability p (the persistence parameter). The weight an
// item earns from appearing at rank x in one list is the probability that
// the reader stops exactly there:
//
//	w(x) = (1 - p) · p^(x-1)
//
// An item's final score is the sum of its weights across every input list.
// Small p concentrates weight at the top of each list; large p examines
// deeper (the expected examination depth is 1/(1-p)).
//
// # Usage
//
// Fuse four rankings of string identifiers with persistence 0.9:
//
//	rankings := [][]string{
//	    {"A", "D", "B", "C", "G", "F"},
//	    {"B", "D", "E", "C"},
//	    {"A", "B", "D", "C", "G", "F", "E"},
//	    {"G", "D", "E", "A", "F", "C"},
//	}
//	fused, err := rbc.Fuse(rankings, 0.9)
//	// fused[0] = {Item: "D", Score: 0.351}
//
// Lists may have different lengths, and an item may be missing from any
// list (it simply earns nothing there). An empty individual list is valid
// input and contributes nothing. [FuseItems] returns the consensus order
// without scores.
//
// # Determinism
//
// Scores accumulate in a hash map, but output order never depends on map
// iteration: results sort by descending score, and exact ties resolve by
// the position at which each item was first encountered across the
// concatenation of the input lists. Repeated calls with identical inputs
// and options produce bit-identical results.
//
// # Thread Safety
//
// Fuse and FuseItems are pure functions with no shared state; they are safe
// to call concurrently as long as the item type's equality is
// side-effect-free. [WithConcurrency] additionally parallelizes the
// accumulation inside a single call.
package rbc
