package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/storage"
)

// ItemIndex implements storage.ItemIndex for BadgerDB.
type ItemIndex struct {
	backend *Backend
}

var _ storage.ItemIndex = (*ItemIndex)(nil)

// NewItemIndex creates a new ItemIndex.
func NewItemIndex(backend *Backend) (*ItemIndex, error) {
	return &ItemIndex{
		backend: backend,
	}, nil
}

// Close releases resources. ItemIndex has no resources to release.
func (ix *ItemIndex) Close() error {
	return nil
}

// PutItems adds or replaces item entries.
func (ix *ItemIndex) PutItems(ctx context.Context, entries ...*core.ItemEntry) ([]*core.ItemEntry, error) {
	err := ix.backend.UpdateWithRetry(func(tx *badger.Txn) error {
		for _, entry := range entries {
			// Use content-based ID if not set
			if entry.Id == 0 {
				entry.Id = core.IDFromContent(entry.OwnerID + "/" + entry.Title)
			}

			// Set timestamps
			if entry.InsertedAt.IsZero() {
				entry.InsertedAt = time.Now().UTC()
			}
			entry.UpdatedAt = time.Now().UTC()

			// Store primary record
			if err := tx.Set(makeItemKey(entry.Id), storage.MarshalItemEntry(entry)); err != nil {
				return err
			}

			// Store owner index
			if err := tx.Set(makeItemOwnerKey(entry.OwnerID, entry.Id), storage.MarshalID(entry.Id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetItem retrieves a single item entry by ID.
func (ix *ItemIndex) GetItem(ctx context.Context, id core.ID) (*core.ItemEntry, error) {
	var entry *core.ItemEntry
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		entry, err = readItem(tx, makeItemKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, storage.ErrNotFound
	}
	return entry, nil
}

// ItemsByOwner retrieves all item entries belonging to an owner.
func (ix *ItemIndex) ItemsByOwner(ctx context.Context, ownerID string) ([]*core.ItemEntry, error) {
	var entries []*core.ItemEntry

	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialItemOwnerKey(ownerID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			entry, err := readItem(tx, makeItemKey(id))
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("owner index references missing item %d: %w", id, storage.ErrNotFound)
			}
			entries = append(entries, entry)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindSimilar finds an owner's items similar to the given vector.
// Similarity is the dot product, which equals cosine similarity for
// normalized vectors.
func (ix *ItemIndex) FindSimilar(ctx context.Context, ownerID string, vector []float32, minSimilarity float32, limit int) ([]core.ScoredItem, error) {
	entries, err := ix.ItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var results []core.ScoredItem
	for _, entry := range entries {
		// Skip entries without embeddings
		if len(entry.Vector) == 0 {
			continue
		}

		similarity := dotProduct(vector, entry.Vector)
		if similarity >= minSimilarity {
			results = append(results, core.ScoredItem{Item: entry.Id, Score: similarity})
		}
	}

	// Sort by similarity descending, ties by ID for determinism
	slices.SortFunc(results, func(a, b core.ScoredItem) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Item < b.Item {
			return -1
		}
		if a.Item > b.Item {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// readItem reads an item entry inside a transaction.
// Returns nil without error when the key does not exist.
func readItem(tx *badger.Txn, key []byte) (*core.ItemEntry, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry *core.ItemEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalItemEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
