package freshness

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/storage"
)

// Tracker maintains per-(owner, item) index coverage counters and
// derives the freshness state from them on every read.
type Tracker struct {
	repository storage.FreshnessRepository
	thresholds core.CoverageThresholds
	logger     *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker) error

// WithThresholds sets the coverage ratios at which an index counts as
// complete. Default is full coverage for both indexes.
func WithThresholds(thresholds core.CoverageThresholds) Option {
	return func(t *Tracker) error {
		if thresholds.Vector <= 0 || thresholds.Vector > 1 ||
			thresholds.Graph <= 0 || thresholds.Graph > 1 {
			return ErrInvalidThresholds
		}
		t.thresholds = thresholds
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTracker creates a tracker over the given repository.
func NewTracker(repository storage.FreshnessRepository, opts ...Option) (*Tracker, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	t := &Tracker{
		repository: repository,
		thresholds: core.DefaultThresholds(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Thresholds returns the configured coverage thresholds.
func (t *Tracker) Thresholds() core.CoverageThresholds {
	return t.thresholds
}

// RecordIngestion registers newly ingested chunks for an item.
// deltaTotal counts the new chunks; deltaEmbedded counts how many of
// them arrived with embeddings already computed. Returns the record
// after the update.
func (t *Tracker) RecordIngestion(ctx context.Context, ownerID string, itemID core.ID, deltaTotal, deltaEmbedded uint64) (*core.FreshnessRecord, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}

	record, err := t.repository.IncrementIngestion(ctx, ownerID, itemID, deltaTotal, deltaEmbedded)
	if err != nil {
		t.logger.Error("error recording ingestion", "owner", ownerID, "item", itemID, "err", err)
		return nil, err
	}

	t.logger.Debug("recorded ingestion",
		"owner", ownerID,
		"item", itemID,
		"state", record.State(t.thresholds).String(),
		"backlog", record.Backlog())
	return record, nil
}

// RecordGraphLink registers chunks whose graph links completed.
// Returns the record after the update.
func (t *Tracker) RecordGraphLink(ctx context.Context, ownerID string, itemID core.ID, delta uint64) (*core.FreshnessRecord, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}

	record, err := t.repository.IncrementGraphLinked(ctx, ownerID, itemID, delta)
	if err != nil {
		t.logger.Error("error recording graph link", "owner", ownerID, "item", itemID, "err", err)
		return nil, err
	}
	return record, nil
}

// Get retrieves the freshness record for an item.
// Returns storage.ErrNotFound if the item has never been ingested.
func (t *Tracker) Get(ctx context.Context, ownerID string, itemID core.ID) (*core.FreshnessRecord, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}
	return t.repository.GetFreshness(ctx, ownerID, itemID)
}

// StateOf derives the freshness state for an item. Items that have
// never been ingested report FreshnessNotReady.
func (t *Tracker) StateOf(ctx context.Context, ownerID string, itemID core.ID) (core.FreshnessState, error) {
	record, err := t.Get(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return core.FreshnessNotReady, nil
		}
		return 0, err
	}
	return record.State(t.thresholds), nil
}
