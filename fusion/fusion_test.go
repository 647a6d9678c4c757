package fusion

import (
	"testing"

	"github.com/poiesic/librarian/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult(kind core.StrategyKind, ids ...core.ID) core.StrategyResult {
	items := make([]core.ScoredItem, len(ids))
	for i, id := range ids {
		items[i] = core.ScoredItem{Item: id, Score: 1.0 - float32(i)*0.1}
	}
	return core.StrategyResult{Strategy: kind, Items: items, Status: core.StatusOk}
}

func TestConcatDeduplicatesInPriorityOrder(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	order := []core.StrategyKind{core.StrategyExact, core.StrategyLemma}
	results := []core.StrategyResult{
		okResult(core.StrategyLemma, 2, 3, 4),
		okResult(core.StrategyExact, 1, 2),
	}

	fused, err := engine.Fuse(ModeConcat, order, results)
	require.NoError(t, err)

	ids := make([]core.ID, len(fused))
	for i, item := range fused {
		ids[i] = item.Item
	}
	assert.Equal(t, []core.ID{1, 2, 3, 4}, ids)
}

func TestConcatKeepsFirstSeenScore(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	order := []core.StrategyKind{core.StrategyExact, core.StrategyLemma}
	results := []core.StrategyResult{
		{
			Strategy: core.StrategyExact,
			Items:    []core.ScoredItem{{Item: 7, Score: 0.9}},
			Status:   core.StatusOk,
		},
		{
			Strategy: core.StrategyLemma,
			Items:    []core.ScoredItem{{Item: 7, Score: 0.2}},
			Status:   core.StatusOk,
		},
	}

	fused, err := engine.Fuse(ModeConcat, order, results)
	require.NoError(t, err)
	require.Len(t, fused, 1)
	assert.InDelta(t, 0.9, fused[0].Score, 1e-6)
}

func TestRRFRanksSharedItemsFirst(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	// Item 2 appears in both lists; it must outrank item 1, which
	// tops only one list.
	order := []core.StrategyKind{core.StrategyExact, core.StrategySemantic}
	results := []core.StrategyResult{
		okResult(core.StrategyExact, 1, 2),
		okResult(core.StrategySemantic, 2, 3),
	}

	fused, err := engine.Fuse(ModeRRF, order, results)
	require.NoError(t, err)
	require.Len(t, fused, 3)
	assert.Equal(t, core.ID(2), fused[0].Item)
}

func TestRRFScores(t *testing.T) {
	engine, err := New(WithK(60))
	require.NoError(t, err)

	order := []core.StrategyKind{core.StrategyExact, core.StrategySemantic}
	results := []core.StrategyResult{
		okResult(core.StrategyExact, 1, 2),
		okResult(core.StrategySemantic, 2, 3),
	}

	fused, err := engine.Fuse(ModeRRF, order, results)
	require.NoError(t, err)

	// Item 2: rank 2 in exact, rank 1 in semantic.
	expected := 1.0/62.0 + 1.0/61.0
	assert.InDelta(t, expected, float64(fused[0].Score), 1e-6)
}

func TestRRFTieBreaksByBestRankThenID(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	// Items 5 and 9 each appear once at rank 1; scores tie exactly,
	// so the smaller identity wins.
	order := []core.StrategyKind{core.StrategyExact, core.StrategySemantic}
	results := []core.StrategyResult{
		okResult(core.StrategyExact, 9),
		okResult(core.StrategySemantic, 5),
	}

	fused, err := engine.Fuse(ModeRRF, order, results)
	require.NoError(t, err)
	require.Len(t, fused, 2)
	assert.Equal(t, core.ID(5), fused[0].Item)
	assert.Equal(t, core.ID(9), fused[1].Item)
}

func TestFuseIgnoresFailedStrategies(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	order := []core.StrategyKind{core.StrategyExact, core.StrategyLemma, core.StrategySemantic}
	results := []core.StrategyResult{
		okResult(core.StrategyExact, 1),
		{Strategy: core.StrategyLemma, Status: core.StatusTimedOut},
		{Strategy: core.StrategySemantic, Status: core.StatusFailed},
	}

	for _, mode := range []Mode{ModeConcat, ModeRRF} {
		fused, err := engine.Fuse(mode, order, results)
		require.NoError(t, err)
		require.Len(t, fused, 1)
		assert.Equal(t, core.ID(1), fused[0].Item)
	}
}

func TestFuseEmptyResults(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	fused, err := engine.Fuse(ModeRRF, []core.StrategyKind{core.StrategyExact}, nil)
	require.NoError(t, err)
	assert.Empty(t, fused)
}

func TestFuseInvalidMode(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	_, err = engine.Fuse(Mode("bogus"), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestInvalidK(t *testing.T) {
	_, err := New(WithK(0))
	assert.ErrorIs(t, err, ErrInvalidK)
}
