package rbc

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// fuseConfig carries the optional knobs of a single fusion call.
type fuseConfig struct {
	weights     []float64
	concurrency int
}

// weight returns the multiplier for ranking i (1 unless configured).
func (c fuseConfig) weight(i int) float64 {
	if c.weights == nil {
		return 1
	}
	return c.weights[i]
}

// Option configures a single Fuse or FuseItems call.
type Option func(*fuseConfig)

// WithRankingWeights scales each ranking's entire contribution by the given
// multiplier. The slice must have exactly one entry per ranking, each finite
// and non-negative. Omitting the option weights every ranking at 1.
func WithRankingWeights(weights []float64) Option {
	return func(c *fuseConfig) {
		c.weights = weights
	}
}

// WithConcurrency accumulates rankings on up to n goroutines. Values of one
// or less keep the default sequential path. The fused output is independent
// of scheduling: partial sums merge in a fixed order, so repeated calls with
// the same inputs and options stay bit-identical.
func WithConcurrency(n int) Option {
	return func(c *fuseConfig) {
		c.concurrency = n
	}
}

// Fuse combines the given rankings into a single consensus ranking.
//
// Each ranking is an ordered, duplicate-free list of item identifiers,
// best first. Rankings may differ in length and in which items they
// mention; an empty ranking is valid and contributes nothing. persistence
// must lie in [0, 1).
//
// The result covers the union of all input items exactly once, sorted by
// descending score; items with equal scores keep the order in which they
// were first encountered across the inputs. The slice is empty (not nil)
// when every ranking is empty.
//
// Errors: ErrNoRankings, ErrInvalidPersistence, ErrDuplicateItem,
// ErrInvalidWeights. All inputs are checked before any accumulation, so a
// failed call does no partial work.
func Fuse[K comparable](rankings [][]K, persistence float64, opts ...Option) ([]ScoredItem[K], error) {
	var cfg fuseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate(rankings, persistence, cfg); err != nil {
		return nil, err
	}

	offsets, total := startOffsets(rankings)

	var acc *accumulator[K]
	if cfg.concurrency > 1 && len(rankings) > 1 {
		acc = accumulateParallel(rankings, persistence, cfg, offsets, total)
	} else {
		acc = newAccumulator[K](total)
		for i, ranking := range rankings {
			acc.add(ranking, persistence, cfg.weight(i), offsets[i])
		}
	}

	return acc.sorted(), nil
}

// FuseItems is Fuse with the scores discarded: it returns only the fused
// consensus order.
func FuseItems[K comparable](rankings [][]K, persistence float64, opts ...Option) ([]K, error) {
	scored, err := Fuse(rankings, persistence, opts...)
	if err != nil {
		return nil, err
	}

	items := make([]K, len(scored))
	for i, s := range scored {
		items[i] = s.Item
	}
	return items, nil
}

// validate checks every precondition before any accumulation happens.
func validate[K comparable](rankings [][]K, persistence float64, cfg fuseConfig) error {
	if len(rankings) == 0 {
		return ErrNoRankings
	}

	if math.IsNaN(persistence) || persistence < 0 || persistence >= 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidPersistence, persistence)
	}

	if cfg.weights != nil {
		if len(cfg.weights) != len(rankings) {
			return fmt.Errorf("%w: %d weights for %d rankings",
				ErrInvalidWeights, len(cfg.weights), len(rankings))
		}
		for i, w := range cfg.weights {
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return fmt.Errorf("%w: weight %v at index %d", ErrInvalidWeights, w, i)
			}
		}
	}

	for i, ranking := range rankings {
		if err := checkDuplicates(i, ranking); err != nil {
			return err
		}
	}

	return nil
}

// checkDuplicates rejects a ranking that mentions the same item twice.
func checkDuplicates[K comparable](index int, ranking []K) error {
	if len(ranking) < 2 {
		return nil
	}

	seen := make(map[K]int, len(ranking))
	for pos, item := range ranking {
		if prev, ok := seen[item]; ok {
			return fmt.Errorf("%w: ranking %d lists %v at ranks %d and %d",
				ErrDuplicateItem, index, item, prev+1, pos+1)
		}
		seen[item] = pos
	}

	return nil
}

// startOffsets returns each ranking's starting position in the notional
// concatenation of all inputs, plus the total item count. The offsets let
// first-seen positions be computed independently per ranking, which keeps
// the tie-break identical between the sequential and parallel paths.
func startOffsets[K comparable](rankings [][]K) ([]int, int) {
	offsets := make([]int, len(rankings))
	total := 0
	for i, ranking := range rankings {
		offsets[i] = total
		total += len(ranking)
	}
	return offsets, total
}

// accumulator tracks per-item running totals plus the position at which
// each item was first encountered across the concatenated inputs.
type accumulator[K comparable] struct {
	scores    map[K]float64
	firstSeen map[K]int
}

func newAccumulator[K comparable](hint int) *accumulator[K] {
	return &accumulator[K]{
		scores:    make(map[K]float64, hint),
		firstSeen: make(map[K]int, hint),
	}
}

// add folds one ranking into the accumulator. The rank-x weight
// (1-p)·p^(x-1) is maintained as a running term multiplied by p per step,
// never recomputed by exponentiation. At p = 0 the term is 1 at rank 1 and
// 0 afterwards, so only first place counts.
func (a *accumulator[K]) add(ranking []K, persistence, weight float64, offset int) {
	term := (1 - persistence) * weight
	for i, item := range ranking {
		if _, ok := a.firstSeen[item]; !ok {
			a.firstSeen[item] = offset + i
		}
		a.scores[item] += term
		term *= persistence
	}
}

// merge folds b into a. Per-item addition and min-of-first-positions are
// both associative and commutative, so merging shard results in shard
// index order reproduces the sequential outcome's ordering exactly.
func (a *accumulator[K]) merge(b *accumulator[K]) {
	for item, s := range b.scores {
		a.scores[item] += s
	}
	for item, pos := range b.firstSeen {
		if cur, ok := a.firstSeen[item]; !ok || pos < cur {
			a.firstSeen[item] = pos
		}
	}
}

// sorted flattens the accumulator into the final ordering: score
// descending, first-seen position ascending on exact ties. Map iteration
// order never reaches the output; first-seen positions are unique, so the
// comparator is total.
func (a *accumulator[K]) sorted() []ScoredItem[K] {
	out := make([]ScoredItem[K], 0, len(a.scores))
	for item, score := range a.scores {
		out = append(out, ScoredItem[K]{Item: item, Score: score})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return a.firstSeen[out[i].Item] < a.firstSeen[out[j].Item]
	})

	return out
}

// accumulateParallel shards the rankings across workers, accumulates each
// shard independently, then merges single-threaded in shard index order.
func accumulateParallel[K comparable](rankings [][]K, persistence float64, cfg fuseConfig, offsets []int, total int) *accumulator[K] {
	workers := cfg.concurrency
	if workers > len(rankings) {
		workers = len(rankings)
	}
	per := (len(rankings) + workers - 1) / workers

	parts := make([]*accumulator[K], workers)
	var g errgroup.Group

	for w := 0; w < workers; w++ {
		w := w
		lo := w * per
		hi := min(lo+per, len(rankings))
		if lo >= hi {
			continue
		}

		g.Go(func() error {
			hint := 0
			for i := lo; i < hi; i++ {
				hint += len(rankings[i])
			}
			part := newAccumulator[K](hint)
			for i := lo; i < hi; i++ {
				part.add(rankings[i], persistence, cfg.weight(i), offsets[i])
			}
			parts[w] = part
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; inputs were validated up front

	acc := newAccumulator[K](total)
	for _, part := range parts {
		if part != nil {
			acc.merge(part)
		}
	}
	return acc
}
