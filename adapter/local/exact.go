package local

import (
	"context"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/storage"
)

// ExactStrategy matches queries verbatim against normalized item titles.
type ExactStrategy struct {
	index storage.ItemIndex
}

var _ adapter.Strategy = (*ExactStrategy)(nil)

// NewExact creates an exact-match strategy over the local item index.
func NewExact(index storage.ItemIndex) (*ExactStrategy, error) {
	if index == nil {
		return nil, ErrItemIndexRequired
	}
	return &ExactStrategy{index: index}, nil
}

// Kind returns core.StrategyExact.
func (s *ExactStrategy) Kind() core.StrategyKind {
	return core.StrategyExact
}

// Search returns items whose normalized title equals the normalized query.
func (s *ExactStrategy) Search(ctx context.Context, query core.Query) ([]core.ScoredItem, error) {
	entries, err := scopedEntries(ctx, s.index, query.Scope)
	if err != nil {
		return nil, err
	}

	normalized := query.Normalized()
	var results []core.ScoredItem
	for _, entry := range entries {
		if core.NormalizeText(entry.Title) == normalized {
			results = append(results, core.ScoredItem{Item: entry.Id, Score: 1.0})
		}
	}
	return results, nil
}

// scopedEntries loads the entries a query may match: the owner's library,
// or the single scoped item.
func scopedEntries(ctx context.Context, index storage.ItemIndex, scope core.Scope) ([]*core.ItemEntry, error) {
	if scope.ItemID != 0 {
		entry, err := index.GetItem(ctx, scope.ItemID)
		if err == storage.ErrNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []*core.ItemEntry{entry}, nil
	}
	return index.ItemsByOwner(ctx, scope.OwnerID)
}
