package fusion

import (
	"slices"

	"github.com/poiesic/librarian/core"
)

// Mode selects how per-strategy ranked lists are merged.
type Mode string

const (
	// ModeConcat appends lists in bucket priority order, deduplicating by
	// item. Favors the router's declared priority over raw score
	// magnitude.
	ModeConcat Mode = "concat"
	// ModeRRF combines lists by reciprocal rank: score = Σ 1/(k+rank).
	ModeRRF Mode = "rrf"
)

// DefaultRRFK is the default rank-smoothing constant. 60 is the value
// used across the literature and by hybrid search engines.
const DefaultRRFK = 60

// Engine merges per-strategy ranked lists into one final ranked list.
type Engine struct {
	k int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithK sets the RRF smoothing constant. Default is 60.
func WithK(k int) Option {
	return func(e *Engine) error {
		if k < 1 {
			return ErrInvalidK
		}
		e.k = k
		return nil
	}
}

// New creates a fusion engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{k: DefaultRRFK}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Fuse merges the Ok results among results into one ranked list.
// order is the router's selectedBuckets order; it fixes both which
// results survive iteration order and, for concat, the dedup priority.
// Results whose status is not Ok are ignored. Output is deterministic
// for identical inputs.
func (e *Engine) Fuse(mode Mode, order []core.StrategyKind, results []core.StrategyResult) ([]core.ScoredItem, error) {
	surviving := surviving(order, results)

	switch mode {
	case ModeConcat:
		return concat(surviving), nil
	case ModeRRF:
		return rrf(surviving, e.k), nil
	default:
		return nil, ErrInvalidMode
	}
}

// surviving selects the Ok results in selectedBuckets order. Iteration
// over the input set is never keyed on a map, so fusion output cannot
// depend on map ordering.
func surviving(order []core.StrategyKind, results []core.StrategyResult) []core.StrategyResult {
	out := make([]core.StrategyResult, 0, len(results))
	for _, kind := range order {
		for i := range results {
			if results[i].Strategy == kind && results[i].Status == core.StatusOk {
				out = append(out, results[i])
				break
			}
		}
	}
	return out
}

// concat appends each surviving list in priority order, keeping the
// first occurrence of every item. An item's fused score is the score
// from the highest-priority strategy that returned it.
func concat(surviving []core.StrategyResult) []core.ScoredItem {
	seen := make(map[core.ID]bool)
	var fused []core.ScoredItem

	for _, result := range surviving {
		for _, item := range result.Items {
			if seen[item.Item] {
				continue
			}
			seen[item.Item] = true
			fused = append(fused, item)
		}
	}
	return fused
}

// rrf scores every candidate item by Σ 1/(k+rank) over the lists that
// contain it, rank being the 1-based position. Ties break by the item's
// best rank in any single list, then by item identity.
func rrf(surviving []core.StrategyResult, k int) []core.ScoredItem {
	type candidate struct {
		item     core.ID
		score    float64
		bestRank int
	}

	index := make(map[core.ID]int)
	var candidates []candidate

	for _, result := range surviving {
		for i, item := range result.Items {
			rank := i + 1
			pos, ok := index[item.Item]
			if !ok {
				index[item.Item] = len(candidates)
				candidates = append(candidates, candidate{item: item.Item, bestRank: rank})
				pos = len(candidates) - 1
			}
			candidates[pos].score += 1.0 / float64(k+rank)
			if rank < candidates[pos].bestRank {
				candidates[pos].bestRank = rank
			}
		}
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		if a.bestRank != b.bestRank {
			return a.bestRank - b.bestRank
		}
		if a.item < b.item {
			return -1
		}
		if a.item > b.item {
			return 1
		}
		return 0
	})

	fused := make([]core.ScoredItem, len(candidates))
	for i, c := range candidates {
		fused[i] = core.ScoredItem{Item: c.item, Score: float32(c.score)}
	}
	return fused
}
