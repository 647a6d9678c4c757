package mock

import (
	"context"
	"sync"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
)

// MockEnricher is a test double for adapter.Enricher.
// It allows custom behavior injection via function fields.
type MockEnricher struct {
	// EnrichFunc is called by Enrich if set.
	// If nil, Enrich succeeds.
	EnrichFunc func(ctx context.Context, ownerID string, itemID core.ID, chunk uint64) error

	mu      sync.Mutex
	chunks  []uint64
	callers int
}

var _ adapter.Enricher = (*MockEnricher)(nil)

// NewMockEnricher creates a mock enricher that records every call.
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

// Enrich records the call, then delegates to EnrichFunc if set.
func (m *MockEnricher) Enrich(ctx context.Context, ownerID string, itemID core.ID, chunk uint64) error {
	m.mu.Lock()
	m.chunks = append(m.chunks, chunk)
	m.callers++
	m.mu.Unlock()

	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, ownerID, itemID, chunk)
	}
	return nil
}

// CallCount returns the number of times Enrich was called.
func (m *MockEnricher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callers
}

// Chunks returns the chunk ordinals Enrich was called with, in call order.
func (m *MockEnricher) Chunks() []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint64, len(m.chunks))
	copy(out, m.chunks)
	return out
}
