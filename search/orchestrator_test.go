package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/librarian/adapter"
	"github.com/poiesic/librarian/adapter/mock"
	"github.com/poiesic/librarian/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T, strategies []adapter.Strategy, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(strategies, opts...)
	require.NoError(t, err)
	t.Cleanup(o.Release)
	return o
}

func testQuery(raw string) core.Query {
	return core.NewQuery(raw, core.Scope{OwnerID: "alice"})
}

func TestExecuteRunsAllSelectedStrategies(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact, core.ScoredItem{Item: 1, Score: 1.0})
	lemma := mock.NewMockStrategy(core.StrategyLemma, core.ScoredItem{Item: 2, Score: 0.5})
	o := newTestOrchestrator(t, []adapter.Strategy{exact, lemma})

	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategyExact, core.StrategyLemma},
		Reason:  "short_query",
	}
	results, err := o.Execute(context.Background(), testQuery("sefiller"), decision)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, core.StrategyExact, results[0].Strategy)
	assert.Equal(t, core.StatusOk, results[0].Status)
	assert.Equal(t, core.ID(1), results[0].Items[0].Item)

	assert.Equal(t, core.StrategyLemma, results[1].Strategy)
	assert.Equal(t, core.StatusOk, results[1].Status)

	assert.Equal(t, 1, exact.CallCount())
	assert.Equal(t, 1, lemma.CallCount())
}

func TestExecuteSkipsUnselectedStrategies(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact, core.ScoredItem{Item: 1, Score: 1.0})
	semantic := mock.NewMockStrategy(core.StrategySemantic)
	o := newTestOrchestrator(t, []adapter.Strategy{exact, semantic})

	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategyExact},
		Reason:  "title_pattern",
	}
	results, err := o.Execute(context.Background(), testQuery("sefiller"), decision)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, semantic.CallCount())
}

func TestExecutePartialFailure(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact, core.ScoredItem{Item: 1, Score: 1.0})
	boom := errors.New("index unavailable")
	lemma := &mock.MockStrategy{
		StrategyKind: core.StrategyLemma,
		SearchFunc: func(_ context.Context, _ core.Query) ([]core.ScoredItem, error) {
			return nil, boom
		},
	}
	o := newTestOrchestrator(t, []adapter.Strategy{exact, lemma})

	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategyExact, core.StrategyLemma},
		Reason:  "short_query",
	}
	results, err := o.Execute(context.Background(), testQuery("sefiller"), decision)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, core.StatusOk, results[0].Status)
	assert.Equal(t, core.StatusFailed, results[1].Status)
	assert.ErrorIs(t, results[1].Err, boom)

	assert.Equal(t, []core.StrategyKind{core.StrategyExact}, ExecutedStrategies(results))
}

func TestExecuteTimeout(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact, core.ScoredItem{Item: 1, Score: 1.0})
	slow := &mock.MockStrategy{
		StrategyKind: core.StrategySemantic,
		SearchFunc: func(ctx context.Context, _ core.Query) ([]core.ScoredItem, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	o := newTestOrchestrator(t, []adapter.Strategy{exact, slow},
		WithStrategyTimeout(50*time.Millisecond))

	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategyExact, core.StrategySemantic},
		Reason:  "default_balanced",
	}
	results, err := o.Execute(context.Background(), testQuery("sefiller"), decision)
	require.NoError(t, err)

	assert.Equal(t, core.StatusOk, results[0].Status)
	assert.Equal(t, core.StatusTimedOut, results[1].Status)
	assert.ErrorIs(t, results[1].Err, context.DeadlineExceeded)
}

func TestExecuteAllFailed(t *testing.T) {
	failing := &mock.MockStrategy{
		StrategyKind: core.StrategyExact,
		SearchFunc: func(_ context.Context, _ core.Query) ([]core.ScoredItem, error) {
			return nil, errors.New("index unavailable")
		},
	}
	o := newTestOrchestrator(t, []adapter.Strategy{failing})

	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategyExact},
		Reason:  "title_pattern",
	}
	results, err := o.Execute(context.Background(), testQuery("sefiller"), decision)
	assert.ErrorIs(t, err, ErrAllStrategiesFailed)
	require.Len(t, results, 1)
	assert.Equal(t, core.StatusFailed, results[0].Status)
}

func TestExecuteUnregisteredBucket(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact)
	o := newTestOrchestrator(t, []adapter.Strategy{exact})

	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategySemantic},
		Reason:  "conceptual_hint",
	}
	_, err := o.Execute(context.Background(), testQuery("ahlak nedir"), decision)
	assert.ErrorIs(t, err, ErrNoAdapter)
}

func TestExecuteInvalidDecision(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact)
	o := newTestOrchestrator(t, []adapter.Strategy{exact})

	_, err := o.Execute(context.Background(), testQuery("sefiller"), core.RouteDecision{})
	assert.ErrorIs(t, err, core.ErrNoBuckets)
}

func TestExecuteWithMonitor(t *testing.T) {
	exact := mock.NewMockStrategy(core.StrategyExact, core.ScoredItem{Item: 1, Score: 1.0})
	lemma := mock.NewMockStrategy(core.StrategyLemma)
	o := newTestOrchestrator(t, []adapter.Strategy{exact, lemma})

	monitor := &recordingMonitor{}
	decision := core.RouteDecision{
		Buckets: []core.StrategyKind{core.StrategyExact, core.StrategyLemma},
		Reason:  "short_query",
	}
	_, err := o.ExecuteWithMonitor(context.Background(), testQuery("sefiller"), decision, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 2, monitor.finishedStrategies)
	require.NotNil(t, monitor.final)
	assert.Len(t, monitor.final, 2)
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, err := NewOrchestrator(nil)
	assert.ErrorIs(t, err, ErrNoStrategies)

	_, err = NewOrchestrator([]adapter.Strategy{nil})
	assert.ErrorIs(t, err, ErrNilStrategy)

	_, err = NewOrchestrator([]adapter.Strategy{
		mock.NewMockStrategy(core.StrategyExact),
		mock.NewMockStrategy(core.StrategyExact),
	})
	assert.ErrorIs(t, err, ErrDuplicateStrategy)

	_, err = NewOrchestrator(
		[]adapter.Strategy{mock.NewMockStrategy(core.StrategyExact)},
		WithStrategyTimeout(0))
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}

type recordingMonitor struct {
	started            bool
	finishedStrategies int
	final              []core.StrategyResult
}

func (m *recordingMonitor) Start(_ core.Query, _ core.RouteDecision) { m.started = true }
func (m *recordingMonitor) StrategyFinished(_ core.StrategyResult)   { m.finishedStrategies++ }
func (m *recordingMonitor) Finish(results []core.StrategyResult)     { m.final = results }
