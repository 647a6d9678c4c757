package search

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/core"
)

// DefaultStrategyTimeout bounds how long a single strategy may run
// before its slot is marked timed out.
const DefaultStrategyTimeout = 2 * time.Second

// Orchestrator fans a routed query out to the selected search
// strategies concurrently and collects their per-strategy results.
type Orchestrator struct {
	adapters map[core.StrategyKind]adapter.Strategy
	pool     *ants.Pool
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent strategy
// execution. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}

		if o.pool != nil {
			o.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithStrategyTimeout sets the per-strategy execution deadline.
// Default is DefaultStrategyTimeout.
func WithStrategyTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		o.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an orchestrator over the given strategies.
// Each strategy kind may be registered at most once.
func NewOrchestrator(strategies []adapter.Strategy, opts ...Option) (*Orchestrator, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}

	adapters := make(map[core.StrategyKind]adapter.Strategy, len(strategies))
	for _, strategy := range strategies {
		if strategy == nil {
			return nil, ErrNilStrategy
		}
		if err := core.ValidateStrategyKind(strategy.Kind()); err != nil {
			return nil, err
		}
		if _, exists := adapters[strategy.Kind()]; exists {
			return nil, ErrDuplicateStrategy
		}
		adapters[strategy.Kind()] = strategy
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		adapters: adapters,
		pool:     pool,
		timeout:  DefaultStrategyTimeout,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Execute runs every strategy in decision.Buckets concurrently and
// returns one result per bucket, in bucket order.
func (o *Orchestrator) Execute(ctx context.Context, query core.Query, decision core.RouteDecision) ([]core.StrategyResult, error) {
	return o.ExecuteWithMonitor(ctx, query, decision, nil)
}

// ExecuteWithMonitor runs every strategy in decision.Buckets
// concurrently with monitoring. The monitor receives a callback as each
// strategy finishes and once when the whole fan-out completes.
//
// A strategy that exceeds the configured timeout is reported as timed
// out; a strategy that returns an error is reported as failed. Neither
// aborts the others. Only when no strategy produces a usable result
// does Execute return ErrAllStrategiesFailed alongside the per-strategy
// results.
func (o *Orchestrator) ExecuteWithMonitor(ctx context.Context, query core.Query, decision core.RouteDecision, monitor Monitor) ([]core.StrategyResult, error) {
	if err := core.ValidateRouteDecision(decision); err != nil {
		return nil, err
	}
	for _, kind := range decision.Buckets {
		if _, ok := o.adapters[kind]; !ok {
			return nil, ErrNoAdapter
		}
	}

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query, decision)

	results := make([]core.StrategyResult, len(decision.Buckets))
	done := make(chan int, len(decision.Buckets))

	for i, kind := range decision.Buckets {
		i, kind := i, kind
		strategy := o.adapters[kind]

		err := o.pool.Submit(func() {
			results[i] = o.runStrategy(ctx, strategy, kind, query)
			done <- i
		})
		if err != nil {
			// Pool rejected the task; record the failure in place.
			results[i] = core.StrategyResult{Strategy: kind, Status: core.StatusFailed, Err: err}
			done <- i
		}
	}

	for range decision.Buckets {
		i := <-done
		monitor.StrategyFinished(results[i])
	}

	monitor.Finish(results)

	anyOk := false
	for _, result := range results {
		if result.Status == core.StatusOk {
			anyOk = true
			break
		}
	}
	if !anyOk {
		return results, ErrAllStrategiesFailed
	}
	return results, nil
}

// ExecutedStrategies returns the kinds whose results are usable, in
// the same order the buckets were selected.
func ExecutedStrategies(results []core.StrategyResult) []core.StrategyKind {
	executed := make([]core.StrategyKind, 0, len(results))
	for _, result := range results {
		if result.Status == core.StatusOk {
			executed = append(executed, result.Strategy)
		}
	}
	return executed
}

// runStrategy executes one strategy under the per-strategy deadline.
func (o *Orchestrator) runStrategy(ctx context.Context, strategy adapter.Strategy, kind core.StrategyKind, query core.Query) core.StrategyResult {
	tctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	type outcome struct {
		items []core.ScoredItem
		err   error
	}
	ch := make(chan outcome, 1)

	go func() {
		items, err := strategy.Search(tctx, query)
		ch <- outcome{items: items, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			o.logger.Warn("search strategy failed", "strategy", kind, "err", out.err)
			return core.StrategyResult{Strategy: kind, Status: core.StatusFailed, Err: out.err}
		}
		return core.StrategyResult{Strategy: kind, Items: out.items, Status: core.StatusOk}
	case <-tctx.Done():
		o.logger.Warn("search strategy timed out", "strategy", kind, "timeout", o.timeout)
		return core.StrategyResult{Strategy: kind, Status: core.StatusTimedOut, Err: tctx.Err()}
	}
}

// Release shuts down the worker pool. The orchestrator must not be
// used after Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}
