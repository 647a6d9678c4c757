package enrich

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestBucketStartsFull(t *testing.T) {
	bucket, err := NewTokenBucket(10, WithClock(newFakeClock().Now))
	require.NoError(t, err)
	assert.Equal(t, 10, bucket.Available())
}

func TestTryAcquireFullGrant(t *testing.T) {
	bucket, err := NewTokenBucket(10, WithClock(newFakeClock().Now))
	require.NoError(t, err)

	assert.Equal(t, 4, bucket.TryAcquire(4))
	assert.Equal(t, 6, bucket.Available())
}

func TestTryAcquirePartialGrant(t *testing.T) {
	bucket, err := NewTokenBucket(10, WithClock(newFakeClock().Now))
	require.NoError(t, err)

	assert.Equal(t, 10, bucket.TryAcquire(10))
	// Bucket is empty; a request for 5 is granted 0, not queued.
	assert.Equal(t, 0, bucket.TryAcquire(5))
}

func TestTryAcquireConcurrent(t *testing.T) {
	bucket, err := NewTokenBucket(50, WithClock(newFakeClock().Now))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		granted atomic.Int64
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				granted.Add(int64(bucket.TryAcquire(3)))
			}
		}()
	}
	wg.Wait()

	// The clock never advances, so every grant comes out of the initial
	// 50 tokens. Demand is 600; any over-grant inflates the sum.
	assert.Equal(t, int64(50), granted.Load())
	assert.Equal(t, 0, bucket.Available())
}

func TestRefillOverTime(t *testing.T) {
	clock := newFakeClock()
	bucket, err := NewTokenBucket(60, WithClock(clock.Now))
	require.NoError(t, err)

	require.Equal(t, 60, bucket.TryAcquire(60))
	require.Equal(t, 0, bucket.Available())

	// 60 per minute refills one token per second.
	clock.Advance(5 * time.Second)
	assert.Equal(t, 5, bucket.Available())

	assert.Equal(t, 3, bucket.TryAcquire(3))
	assert.Equal(t, 2, bucket.Available())
}

func TestRefillCapsAtCapacity(t *testing.T) {
	clock := newFakeClock()
	bucket, err := NewTokenBucket(10, WithClock(clock.Now))
	require.NoError(t, err)

	require.Equal(t, 4, bucket.TryAcquire(4))
	clock.Advance(time.Hour)
	assert.Equal(t, 10, bucket.Available())
}

func TestTryAcquireNonPositive(t *testing.T) {
	bucket, err := NewTokenBucket(10)
	require.NoError(t, err)

	assert.Equal(t, 0, bucket.TryAcquire(0))
	assert.Equal(t, 0, bucket.TryAcquire(-3))
}

func TestNewTokenBucketValidation(t *testing.T) {
	_, err := NewTokenBucket(0)
	assert.ErrorIs(t, err, ErrInvalidRate)
}
