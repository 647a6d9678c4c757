package mock

import (
	"context"
	"sync"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
)

// MockStrategy is a test double for adapter.Strategy.
// It allows custom behavior injection via function fields.
type MockStrategy struct {
	// StrategyKind is the kind this mock reports.
	StrategyKind core.StrategyKind

	// SearchFunc is called by Search if set.
	// If nil, Items is returned.
	SearchFunc func(ctx context.Context, query core.Query) ([]core.ScoredItem, error)

	// Items is the canned result returned when SearchFunc is nil.
	Items []core.ScoredItem

	mu        sync.Mutex
	callCount int
}

var _ adapter.Strategy = (*MockStrategy)(nil)

// NewMockStrategy creates a mock strategy of the given kind returning the
// given canned items.
func NewMockStrategy(kind core.StrategyKind, items ...core.ScoredItem) *MockStrategy {
	return &MockStrategy{StrategyKind: kind, Items: items}
}

// Kind returns the configured strategy kind.
func (m *MockStrategy) Kind() core.StrategyKind {
	return m.StrategyKind
}

// Search returns the canned items, or calls SearchFunc if set.
func (m *MockStrategy) Search(ctx context.Context, query core.Query) ([]core.ScoredItem, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return m.Items, nil
}

// CallCount returns the number of times Search was called.
func (m *MockStrategy) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
