package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/freshness"
	"github.com/poiesic/librarian/storage"
)

const (
	// DefaultMaxItems caps the chunks one trigger may enrich.
	DefaultMaxItems = 8
	// DefaultJobTimeout bounds one detached enrichment run.
	DefaultJobTimeout = 30 * time.Second
	// DefaultRatePerMinute is the default enrichment admission rate.
	DefaultRatePerMinute = 60

	retryAttempts  = 3
	retryBaseDelay = 100 * time.Millisecond
)

// Trigger fires best-effort enrichment for items whose graph index
// lags behind ingestion. Work is admitted through a token bucket and
// runs detached on a worker pool; triggering never blocks a query and
// never returns an error for an item that simply has nothing to do.
type Trigger struct {
	tracker  *freshness.Tracker
	enricher adapter.Enricher
	bucket   *TokenBucket
	registry *JobRegistry
	pool     *ants.Pool
	maxItems int
	timeout  time.Duration
	enabled  bool
	logger   *slog.Logger
}

// TriggerOption configures a Trigger.
type TriggerOption func(*Trigger) error

// WithMaxItems caps how many chunks one trigger may request.
// Default is DefaultMaxItems.
func WithMaxItems(n int) TriggerOption {
	return func(t *Trigger) error {
		if n < 1 {
			return ErrInvalidMaxItems
		}
		t.maxItems = n
		return nil
	}
}

// WithJobTimeout bounds a detached enrichment run.
// Default is DefaultJobTimeout.
func WithJobTimeout(timeout time.Duration) TriggerOption {
	return func(t *Trigger) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		t.timeout = timeout
		return nil
	}
}

// WithRateLimiter replaces the admission bucket. Used by tests to
// control the clock or starve the bucket.
func WithRateLimiter(bucket *TokenBucket) TriggerOption {
	return func(t *Trigger) error {
		if bucket == nil {
			return ErrBucketRequired
		}
		t.bucket = bucket
		return nil
	}
}

// WithEnabled turns triggering on or off. A disabled trigger is a
// no-op that records nothing. Default is enabled.
func WithEnabled(enabled bool) TriggerOption {
	return func(t *Trigger) error {
		t.enabled = enabled
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) TriggerOption {
	return func(t *Trigger) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTrigger creates an enrichment trigger.
func NewTrigger(tracker *freshness.Tracker, enricher adapter.Enricher, opts ...TriggerOption) (*Trigger, error) {
	if tracker == nil {
		return nil, ErrTrackerRequired
	}
	if enricher == nil {
		return nil, ErrEnricherRequired
	}

	bucket, err := NewTokenBucket(DefaultRatePerMinute)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	t := &Trigger{
		tracker:  tracker,
		enricher: enricher,
		bucket:   bucket,
		registry: NewJobRegistry(),
		pool:     pool,
		maxItems: DefaultMaxItems,
		timeout:  DefaultJobTimeout,
		enabled:  true,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(t); optErr != nil {
			t.Release()
			return nil, optErr
		}
	}

	return t, nil
}

// Registry exposes the job registry for inspection.
func (t *Trigger) Registry() *JobRegistry {
	return t.registry
}

// MaybeTrigger requests enrichment for an item. It returns the ID of
// the registered job, or 0 when there is nothing to do: the trigger is
// disabled, the item is unknown, the tracker already reports it fully
// ready under the configured thresholds, or its graph index is
// complete. When the bucket grants no tokens the job is registered as
// skipped and no work runs. Otherwise the work is submitted to the
// pool and MaybeTrigger returns without waiting for it.
func (t *Trigger) MaybeTrigger(ctx context.Context, ownerID string, itemID core.ID, reason string) (uint64, error) {
	if !t.enabled {
		return 0, nil
	}

	record, err := t.tracker.Get(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if record.State(t.tracker.Thresholds()) == core.FreshnessFullyReady {
		return 0, nil
	}
	backlog := record.Backlog()
	if backlog == 0 {
		return 0, nil
	}

	requested := t.maxItems
	if uint64(requested) > backlog {
		requested = int(backlog)
	}
	granted := t.bucket.TryAcquire(requested)

	job := &core.EnrichmentJob{
		OwnerID:   ownerID,
		ItemID:    itemID,
		Reason:    reason,
		MaxItems:  t.maxItems,
		Timeout:   t.timeout,
		Status:    core.JobPending,
		Requested: requested,
		Granted:   granted,
	}
	id := t.registry.add(job)

	if granted == 0 {
		t.registry.update(id, func(j *core.EnrichmentJob) {
			j.Status = core.JobSkipped
			j.FinishedAt = time.Now().UTC()
		})
		t.logger.Debug("enrichment skipped, no tokens", "owner", ownerID, "item", itemID, "requested", requested)
		return id, nil
	}

	// First unlinked chunk; ordinals are stable because the graph
	// counter only advances as chunks complete.
	firstChunk := record.GraphLinkedChunks

	if err := t.pool.Submit(func() {
		t.run(id, ownerID, itemID, firstChunk, granted)
	}); err != nil {
		t.registry.update(id, func(j *core.EnrichmentJob) {
			j.Status = core.JobFailed
			j.FinishedAt = time.Now().UTC()
		})
		return id, err
	}

	return id, nil
}

// run executes one detached enrichment job. It uses a background
// context so the triggering query's cancellation cannot abort it.
func (t *Trigger) run(jobID uint64, ownerID string, itemID core.ID, firstChunk uint64, granted int) {
	t.registry.update(jobID, func(j *core.EnrichmentJob) {
		j.Status = core.JobRunning
		j.StartedAt = time.Now().UTC()
	})

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	var enriched uint64
	var failures int

	for i := 0; i < granted; i++ {
		chunk := firstChunk + enriched

		err := retryWithBackoff(ctx, func() error {
			return t.enricher.Enrich(ctx, ownerID, itemID, chunk)
		}, retryAttempts, retryBaseDelay)
		if err != nil {
			failures++
			t.logger.Warn("chunk enrichment failed", "owner", ownerID, "item", itemID, "chunk", chunk, "err", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if _, err := t.tracker.RecordGraphLink(ctx, ownerID, itemID, 1); err != nil {
			failures++
			t.logger.Error("error recording enriched chunk", "owner", ownerID, "item", itemID, "chunk", chunk, "err", err)
			break
		}
		enriched++
	}

	t.registry.update(jobID, func(j *core.EnrichmentJob) {
		j.Enriched = enriched
		j.Failures = failures
		j.FinishedAt = time.Now().UTC()

		switch {
		case enriched == 0:
			j.Status = core.JobFailed
		case failures > 0 || j.Granted < j.Requested:
			j.Status = core.JobPartiallySucceeded
		default:
			j.Status = core.JobSucceeded
		}
	})

	t.logger.Debug("enrichment job finished", "job", jobID, "owner", ownerID, "item", itemID, "enriched", enriched, "failures", failures)
}

// Release shuts down the worker pool. Jobs already submitted finish
// first. The trigger must not be used after Release.
func (t *Trigger) Release() {
	if t.pool != nil {
		t.pool.Release()
	}
}
