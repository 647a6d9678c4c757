package storage

import (
	"context"

	"github.com/poiesic/librarian/core"
)

// FreshnessRepository owns per-(owner, item) coverage counters.
// Implementations must be thread-safe; concurrent increments from
// ingestion and enrichment completion must never lose updates.
type FreshnessRepository interface {
	// IncrementIngestion atomically adds deltas to the total and embedded
	// chunk counters, creating the record on first ingestion.
	// The embedded counter is capped at the total counter.
	// Returns the record after the update.
	IncrementIngestion(ctx context.Context, ownerID string, itemID core.ID, deltaTotal, deltaEmbedded uint64) (*core.FreshnessRecord, error)

	// IncrementGraphLinked atomically adds delta to the graph-linked chunk
	// counter, creating the record if it does not exist.
	// The counter is capped at the total counter.
	// Returns the record after the update.
	IncrementGraphLinked(ctx context.Context, ownerID string, itemID core.ID, delta uint64) (*core.FreshnessRecord, error)

	// GetFreshness retrieves the freshness record for an item.
	// Returns ErrNotFound if the item has never been ingested.
	GetFreshness(ctx context.Context, ownerID string, itemID core.ID) (*core.FreshnessRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// ItemIndex stores library item entries for the local strategy adapters.
type ItemIndex interface {
	// PutItems adds or replaces item entries.
	// For entries with Id=0, derives a content ID from owner and title.
	// Sets InsertedAt if not already set and returns the stored entries.
	PutItems(ctx context.Context, entries ...*core.ItemEntry) ([]*core.ItemEntry, error)

	// GetItem retrieves a single item entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetItem(ctx context.Context, id core.ID) (*core.ItemEntry, error)

	// ItemsByOwner retrieves all item entries belonging to an owner.
	ItemsByOwner(ctx context.Context, ownerID string) ([]*core.ItemEntry, error)

	// FindSimilar finds an owner's items similar to the given vector.
	// Returns items with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). Entries without a
	// vector are skipped.
	FindSimilar(ctx context.Context, ownerID string, vector []float32, minSimilarity float32, limit int) ([]core.ScoredItem, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
