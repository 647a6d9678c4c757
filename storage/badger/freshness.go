package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/storage"
)

// FreshnessRepository implements storage.FreshnessRepository for BadgerDB.
type FreshnessRepository struct {
	backend *Backend
}

var _ storage.FreshnessRepository = (*FreshnessRepository)(nil)

// NewFreshnessRepository creates a new FreshnessRepository.
func NewFreshnessRepository(backend *Backend) (*FreshnessRepository, error) {
	return &FreshnessRepository{
		backend: backend,
	}, nil
}

// Close releases resources. FreshnessRepository has no resources to release.
func (r *FreshnessRepository) Close() error {
	return nil
}

// IncrementIngestion atomically adds deltas to the total and embedded
// chunk counters, creating the record on first ingestion.
func (r *FreshnessRepository) IncrementIngestion(ctx context.Context, ownerID string, itemID core.ID, deltaTotal, deltaEmbedded uint64) (*core.FreshnessRecord, error) {
	return r.increment(ownerID, itemID, func(rec *core.FreshnessRecord) {
		rec.TotalChunks += deltaTotal
		rec.EmbeddedChunks += deltaEmbedded
		if rec.EmbeddedChunks > rec.TotalChunks {
			rec.EmbeddedChunks = rec.TotalChunks
		}
	})
}

// IncrementGraphLinked atomically adds delta to the graph-linked chunk
// counter.
func (r *FreshnessRepository) IncrementGraphLinked(ctx context.Context, ownerID string, itemID core.ID, delta uint64) (*core.FreshnessRecord, error) {
	return r.increment(ownerID, itemID, func(rec *core.FreshnessRecord) {
		rec.GraphLinkedChunks += delta
		if rec.GraphLinkedChunks > rec.TotalChunks {
			rec.GraphLinkedChunks = rec.TotalChunks
		}
	})
}

// GetFreshness retrieves the freshness record for an item.
func (r *FreshnessRepository) GetFreshness(ctx context.Context, ownerID string, itemID core.ID) (*core.FreshnessRecord, error) {
	var record *core.FreshnessRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = readFreshness(tx, makeFreshnessKey(ownerID, itemID))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}
	return record, nil
}

// increment applies mutate inside a conflict-retried transaction so
// concurrent updates to the same record are never lost.
func (r *FreshnessRepository) increment(ownerID string, itemID core.ID, mutate func(*core.FreshnessRecord)) (*core.FreshnessRecord, error) {
	var record *core.FreshnessRecord

	err := r.backend.UpdateWithRetry(func(tx *badger.Txn) error {
		key := makeFreshnessKey(ownerID, itemID)

		existing, err := readFreshness(tx, key)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &core.FreshnessRecord{OwnerID: ownerID, ItemID: itemID}
		}

		mutate(existing)
		existing.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalFreshnessRecord(existing)); err != nil {
			return err
		}
		record = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// readFreshness reads a freshness record inside a transaction.
// Returns nil without error when the key does not exist.
func readFreshness(tx *badger.Txn, key []byte) (*core.FreshnessRecord, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *core.FreshnessRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalFreshnessRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
