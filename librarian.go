// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package librarian

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/adapter/local"
	"github.com/poiesic/librarian/core"
	"github.com/poiesic/librarian/embed"
	"github.com/poiesic/librarian/embed/openai"
	"github.com/poiesic/librarian/enrich"
	"github.com/poiesic/librarian/freshness"
	"github.com/poiesic/librarian/fusion"
	"github.com/poiesic/librarian/router"
	"github.com/poiesic/librarian/search"
	"github.com/poiesic/librarian/storage"
	"github.com/poiesic/librarian/storage/badger"
)

// TriggerReasonQuery marks enrichment fired by a scoped query.
const TriggerReasonQuery = "query_touch"

// TriggerReasonIngestion marks enrichment fired by an ingestion notification.
const TriggerReasonIngestion = "ingestion"

// Library ties the query-side components together: routing, concurrent
// strategy execution, fusion, freshness tracking and best-effort
// enrichment over a shared badger backend.
type Library struct {
	backend       *badger.Backend
	freshnessRepo storage.FreshnessRepository
	itemIndex     storage.ItemIndex
	embedder      embed.Embedder
	router        *router.Router
	orchestrator  *search.Orchestrator
	fuser         *fusion.Engine
	fusionMode    fusion.Mode
	tracker       *freshness.Tracker
	trigger       *enrich.Trigger
	logger        *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	inMemory        bool
	embedConfig     *embed.Config
	embedder        embed.Embedder
	enricher        adapter.Enricher
	routerOpts      []router.Option
	fusionMode      fusion.Mode
	fusionOpts      []fusion.Option
	strategyTimeout time.Duration
	thresholds      core.CoverageThresholds
	triggerOpts     []enrich.TriggerOption
	logger          *slog.Logger
}

// WithInMemory keeps all storage in memory. Used by tests.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// WithEmbeddingConfig points the embedder at a specific service.
// Default is embed.DefaultConfig().
func WithEmbeddingConfig(config *embed.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.embedConfig = config
	}
}

// WithEmbedder replaces the embedding provider entirely.
func WithEmbedder(embedder embed.Embedder) LibraryOption {
	return func(o *libraryOptions) {
		o.embedder = embedder
	}
}

// WithEnricher sets the graph enricher. Without one, enrichment
// triggering is disabled.
func WithEnricher(enricher adapter.Enricher) LibraryOption {
	return func(o *libraryOptions) {
		o.enricher = enricher
	}
}

// WithRouterOptions passes options through to the router.
func WithRouterOptions(opts ...router.Option) LibraryOption {
	return func(o *libraryOptions) {
		o.routerOpts = append(o.routerOpts, opts...)
	}
}

// WithFusionMode sets how strategy result lists are merged.
// Default is fusion.ModeRRF.
func WithFusionMode(mode fusion.Mode) LibraryOption {
	return func(o *libraryOptions) {
		o.fusionMode = mode
	}
}

// WithFusionOptions passes options through to the fusion engine.
func WithFusionOptions(opts ...fusion.Option) LibraryOption {
	return func(o *libraryOptions) {
		o.fusionOpts = append(o.fusionOpts, opts...)
	}
}

// WithStrategyTimeout sets the per-strategy execution deadline.
func WithStrategyTimeout(timeout time.Duration) LibraryOption {
	return func(o *libraryOptions) {
		o.strategyTimeout = timeout
	}
}

// WithCoverageThresholds sets the freshness coverage thresholds.
func WithCoverageThresholds(thresholds core.CoverageThresholds) LibraryOption {
	return func(o *libraryOptions) {
		o.thresholds = thresholds
	}
}

// WithTriggerOptions passes options through to the enrichment trigger.
func WithTriggerOptions(opts ...enrich.TriggerOption) LibraryOption {
	return func(o *libraryOptions) {
		o.triggerOpts = append(o.triggerOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LibraryOption {
	return func(o *libraryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewLibrary opens a library at filePath and wires up the full query
// pipeline. An empty filePath with WithInMemory keeps everything in
// memory.
func NewLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	// Apply options
	options := &libraryOptions{
		embedConfig: embed.DefaultConfig(),
		fusionMode:  fusion.ModeRRF,
		thresholds:  core.DefaultThresholds(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	freshnessRepo, err := badger.NewFreshnessRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	itemIndex, err := badger.NewItemIndex(backend)
	if err != nil {
		freshnessRepo.Close()
		backend.Close()
		return nil, err
	}

	closeStores := func() {
		itemIndex.Close()
		freshnessRepo.Close()
		backend.Close()
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.embedConfig)
		if err != nil {
			closeStores()
			return nil, err
		}
	}

	rtr, err := router.New(options.routerOpts...)
	if err != nil {
		closeStores()
		return nil, err
	}

	orchestrator, err := newOrchestrator(itemIndex, embedder, options)
	if err != nil {
		closeStores()
		return nil, err
	}

	fuser, err := fusion.New(options.fusionOpts...)
	if err != nil {
		orchestrator.Release()
		closeStores()
		return nil, err
	}

	tracker, err := freshness.NewTracker(freshnessRepo,
		freshness.WithThresholds(options.thresholds),
		freshness.WithLogger(options.logger))
	if err != nil {
		orchestrator.Release()
		closeStores()
		return nil, err
	}

	// Without an enricher the trigger stays wired but disabled, so the
	// notification paths behave identically either way.
	enricher := options.enricher
	triggerOpts := append([]enrich.TriggerOption{enrich.WithLogger(options.logger)}, options.triggerOpts...)
	if enricher == nil {
		enricher = noopEnricher{}
		triggerOpts = append(triggerOpts, enrich.WithEnabled(false))
	}
	trigger, err := enrich.NewTrigger(tracker, enricher, triggerOpts...)
	if err != nil {
		orchestrator.Release()
		closeStores()
		return nil, err
	}

	return &Library{
		backend:       backend,
		freshnessRepo: freshnessRepo,
		itemIndex:     itemIndex,
		embedder:      embedder,
		router:        rtr,
		orchestrator:  orchestrator,
		fuser:         fuser,
		fusionMode:    options.fusionMode,
		tracker:       tracker,
		trigger:       trigger,
		logger:        options.logger,
	}, nil
}

func newOrchestrator(itemIndex storage.ItemIndex, embedder embed.Embedder, options *libraryOptions) (*search.Orchestrator, error) {
	exact, err := local.NewExact(itemIndex)
	if err != nil {
		return nil, err
	}
	lemma, err := local.NewLemma(itemIndex)
	if err != nil {
		return nil, err
	}
	semantic, err := local.NewSemantic(itemIndex, embedder)
	if err != nil {
		return nil, err
	}

	searchOpts := []search.Option{search.WithLogger(options.logger)}
	if options.strategyTimeout > 0 {
		searchOpts = append(searchOpts, search.WithStrategyTimeout(options.strategyTimeout))
	}
	return search.NewOrchestrator([]adapter.Strategy{exact, lemma, semantic}, searchOpts...)
}

// Search routes, executes and fuses one query. The scope's item, when
// set, also receives a best-effort enrichment trigger so that stale
// items catch up as they are queried.
func (l *Library) Search(ctx context.Context, rawQuery string, scope core.Scope) (*core.FusedResult, error) {
	query := core.NewQuery(rawQuery, scope)
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	decision := l.router.Route(query)

	results, err := l.orchestrator.Execute(ctx, query, decision)
	if err != nil {
		return nil, err
	}

	items, err := l.fuser.Fuse(l.fusionMode, decision.Buckets, results)
	if err != nil {
		return nil, err
	}

	if scope.ItemID != 0 {
		if _, terr := l.trigger.MaybeTrigger(ctx, scope.OwnerID, scope.ItemID, TriggerReasonQuery); terr != nil {
			l.logger.Warn("enrichment trigger failed", "owner", scope.OwnerID, "item", scope.ItemID, "err", terr)
		}
	}

	return &core.FusedResult{
		Items:              items,
		RouterMode:         string(l.router.Mode()),
		RouterReason:       decision.Reason,
		SelectedBuckets:    decision.Buckets,
		ExecutedStrategies: search.ExecutedStrategies(results),
	}, nil
}

// AddItems stores item entries, embedding titles that arrive without a
// vector.
func (l *Library) AddItems(ctx context.Context, entries ...*core.ItemEntry) ([]*core.ItemEntry, error) {
	for _, entry := range entries {
		if len(entry.Vector) > 0 {
			continue
		}
		vector, err := l.embedder.EmbedText(ctx, entry.Title)
		if err != nil {
			l.logger.Error("error embedding item title", "title", entry.Title, "err", err)
			return nil, err
		}
		entry.Vector = embed.Normalize(vector)
	}
	return l.itemIndex.PutItems(ctx, entries...)
}

// NotifyIngestion records newly ingested chunks for an item and fires a
// best-effort enrichment trigger for whatever backlog remains. The
// counter update is synchronous; the enrichment runs detached.
func (l *Library) NotifyIngestion(ctx context.Context, ownerID string, itemID core.ID, deltaTotal, deltaEmbedded uint64) (*core.FreshnessRecord, error) {
	record, err := l.tracker.RecordIngestion(ctx, ownerID, itemID, deltaTotal, deltaEmbedded)
	if err != nil {
		return nil, err
	}

	if _, terr := l.trigger.MaybeTrigger(ctx, ownerID, itemID, TriggerReasonIngestion); terr != nil {
		l.logger.Warn("enrichment trigger failed", "owner", ownerID, "item", itemID, "err", terr)
	}
	return record, nil
}

// GetFreshness returns the freshness record and derived state for an
// item. Items never ingested report FreshnessNotReady with a nil record.
func (l *Library) GetFreshness(ctx context.Context, ownerID string, itemID core.ID) (*core.FreshnessRecord, core.FreshnessState, error) {
	record, err := l.tracker.Get(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, core.FreshnessNotReady, nil
		}
		return nil, 0, err
	}
	return record, record.State(l.tracker.Thresholds()), nil
}

// Tracker exposes the freshness tracker.
func (l *Library) Tracker() *freshness.Tracker {
	return l.tracker
}

// Items exposes the item index.
func (l *Library) Items() storage.ItemIndex {
	return l.itemIndex
}

// Jobs returns the enrichment jobs registered so far, in creation order.
func (l *Library) Jobs() []core.EnrichmentJob {
	return l.trigger.Registry().Jobs()
}

// Close shuts down the pipeline and the storage backend.
func (l *Library) Close() error {
	l.trigger.Release()
	l.orchestrator.Release()

	if err := l.itemIndex.Close(); err != nil {
		l.logger.Error("error closing item index", "err", err)
		return err
	}
	if err := l.freshnessRepo.Close(); err != nil {
		l.logger.Error("error closing freshness repository", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// noopEnricher satisfies adapter.Enricher for libraries configured
// without one. The trigger holding it is always disabled.
type noopEnricher struct{}

func (noopEnricher) Enrich(context.Context, string, core.ID, uint64) error {
	return nil
}
