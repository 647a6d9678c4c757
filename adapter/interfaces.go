package adapter

import (
	"context"

	"github.com/poiesic/librarian/core"
)

// Strategy performs one matching technique against a backend index.
// The orchestrator dispatches strategies concurrently, so implementations
// must be thread-safe and must honor context cancellation: a dispatch
// whose context expires is recorded as timed out regardless of what the
// adapter returns afterwards.
type Strategy interface {
	// Kind identifies the matching technique this adapter implements.
	Kind() core.StrategyKind

	// Search returns a ranked list of (item, score) pairs for the query,
	// best match first. An empty list is a valid result.
	Search(ctx context.Context, query core.Query) ([]core.ScoredItem, error)
}

// Enricher links an item's chunks into the knowledge graph.
// Calls are expected to be slow and costly; the enrichment trigger rate
// limits them.
type Enricher interface {
	// Enrich links one chunk of an item into the graph. The chunk is
	// addressed by its ordinal within the item.
	Enrich(ctx context.Context, ownerID string, itemID core.ID, chunk uint64) error
}
