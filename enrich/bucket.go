package enrich

import (
	"sync"
	"time"
)

// TokenBucket is a non-blocking rate limiter for enrichment work.
// Capacity equals the per-minute rate, so a full bucket absorbs one
// minute of burst. TryAcquire grants partially: a request for more
// tokens than available receives whatever is left rather than nothing.
type TokenBucket struct {
	mu              sync.Mutex
	capacity        float64
	tokens          float64
	refillPerSecond float64
	last            time.Time
	now             func() time.Time
}

// BucketOption configures a TokenBucket.
type BucketOption func(*TokenBucket)

// WithClock sets the time source. Used by tests to control refill.
func WithClock(now func() time.Time) BucketOption {
	return func(b *TokenBucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewTokenBucket creates a bucket refilling at ratePerMinute tokens per
// minute. The bucket starts full.
func NewTokenBucket(ratePerMinute int, opts ...BucketOption) (*TokenBucket, error) {
	if ratePerMinute < 1 {
		return nil, ErrInvalidRate
	}

	b := &TokenBucket{
		capacity:        float64(ratePerMinute),
		tokens:          float64(ratePerMinute),
		refillPerSecond: float64(ratePerMinute) / 60.0,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.last = b.now()
	return b, nil
}

// TryAcquire requests n tokens and returns how many were granted,
// between 0 and n. It never blocks.
func (b *TokenBucket) TryAcquire(n int) int {
	if n <= 0 {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()

	granted := n
	if available := int(b.tokens); available < granted {
		granted = available
	}
	b.tokens -= float64(granted)
	return granted
}

// Available returns the current whole-token balance.
func (b *TokenBucket) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return int(b.tokens)
}

// refill credits tokens for the time elapsed since the last update,
// capped at capacity. Caller must hold the lock.
func (b *TokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}

	b.tokens += elapsed * b.refillPerSecond
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now
}
