package badger

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementIngestion(t *testing.T) {
	freshnessRepo, itemIndex, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		itemIndex.Close()
		freshnessRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	itemID := core.IDFromContent("alice/ulysses")

	t.Run("creates record on first ingestion", func(t *testing.T) {
		record, err := freshnessRepo.IncrementIngestion(ctx, "alice", itemID, 10, 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), record.TotalChunks)
		assert.Equal(t, uint64(4), record.EmbeddedChunks)
		assert.Equal(t, "alice", record.OwnerID)
		assert.False(t, record.UpdatedAt.IsZero())
	})

	t.Run("adds to existing counters", func(t *testing.T) {
		record, err := freshnessRepo.IncrementIngestion(ctx, "alice", itemID, 5, 11)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), record.TotalChunks)
		assert.Equal(t, uint64(15), record.EmbeddedChunks, "embedded is capped at total")
	})

	t.Run("readable via GetFreshness", func(t *testing.T) {
		record, err := freshnessRepo.GetFreshness(ctx, "alice", itemID)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), record.TotalChunks)
	})
}

func TestIncrementGraphLinked(t *testing.T) {
	freshnessRepo, itemIndex, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		itemIndex.Close()
		freshnessRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	itemID := core.IDFromContent("alice/dubliners")

	_, err = freshnessRepo.IncrementIngestion(ctx, "alice", itemID, 10, 10)
	require.NoError(t, err)

	record, err := freshnessRepo.IncrementGraphLinked(ctx, "alice", itemID, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), record.GraphLinkedChunks)

	record, err = freshnessRepo.IncrementGraphLinked(ctx, "alice", itemID, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), record.GraphLinkedChunks, "graph-linked is capped at total")
}

func TestGetFreshnessNotFound(t *testing.T) {
	freshnessRepo, itemIndex, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		itemIndex.Close()
		freshnessRepo.Close()
		backend.Close()
	}()

	_, err = freshnessRepo.GetFreshness(context.Background(), "alice", 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConcurrentIncrements(t *testing.T) {
	freshnessRepo, itemIndex, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		itemIndex.Close()
		freshnessRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	itemID := core.IDFromContent("alice/finnegans-wake")

	_, err = freshnessRepo.IncrementIngestion(ctx, "alice", itemID, 1000, 0)
	require.NoError(t, err)

	// Ingestion and enrichment completion race on the same record;
	// no increment may be lost.
	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := freshnessRepo.IncrementIngestion(ctx, "alice", itemID, 0, 1)
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := freshnessRepo.IncrementGraphLinked(ctx, "alice", itemID, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	record, err := freshnessRepo.GetFreshness(ctx, "alice", itemID)
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*perWorker), record.EmbeddedChunks)
	assert.Equal(t, uint64(workers*perWorker), record.GraphLinkedChunks)
}
