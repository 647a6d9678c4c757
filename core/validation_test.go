package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuery(t *testing.T) {
	t.Run("valid query", func(t *testing.T) {
		assert.NoError(t, ValidateQuery(NewQuery("some text", Scope{})))
	})

	t.Run("empty query", func(t *testing.T) {
		err := ValidateQuery(NewQuery("", Scope{}))
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("punctuation only normalizes to empty", func(t *testing.T) {
		err := ValidateQuery(NewQuery("?!", Scope{}))
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestValidateRouteDecision(t *testing.T) {
	t.Run("valid decision", func(t *testing.T) {
		d := RouteDecision{Buckets: []StrategyKind{StrategyExact, StrategyLemma}, Reason: "default_balanced"}
		assert.NoError(t, ValidateRouteDecision(d))
	})

	t.Run("empty buckets", func(t *testing.T) {
		err := ValidateRouteDecision(RouteDecision{Reason: "broken"})
		assert.ErrorIs(t, err, ErrNoBuckets)
	})

	t.Run("duplicate buckets", func(t *testing.T) {
		d := RouteDecision{Buckets: []StrategyKind{StrategyExact, StrategyExact}}
		err := ValidateRouteDecision(d)
		assert.ErrorIs(t, err, ErrDuplicateBucket)
	})

	t.Run("invalid kind", func(t *testing.T) {
		d := RouteDecision{Buckets: []StrategyKind{StrategyKind(42)}}
		err := ValidateRouteDecision(d)
		assert.ErrorIs(t, err, ErrInvalidStrategyKind)
	})
}

func TestValidateFreshnessRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 10, EmbeddedChunks: 10, GraphLinkedChunks: 4}
		assert.NoError(t, ValidateFreshnessRecord(r))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.ErrorIs(t, ValidateFreshnessRecord(nil), ErrInvalidFreshnessRecord)
	})

	t.Run("empty owner", func(t *testing.T) {
		r := &FreshnessRecord{TotalChunks: 1}
		assert.ErrorIs(t, ValidateFreshnessRecord(r), ErrEmptyOwner)
	})

	t.Run("embedded exceeds total", func(t *testing.T) {
		r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 2, EmbeddedChunks: 3}
		assert.ErrorIs(t, ValidateFreshnessRecord(r), ErrCounterOverflow)
	})

	t.Run("graph linked exceeds total", func(t *testing.T) {
		r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 2, GraphLinkedChunks: 3}
		assert.ErrorIs(t, ValidateFreshnessRecord(r), ErrCounterOverflow)
	})
}

func TestTokenize(t *testing.T) {
	t.Run("trims punctuation and lowercases", func(t *testing.T) {
		tokens := Tokenize("Kitabın adı, neydi?")
		assert.Equal(t, []string{"kitabın", "adı", "neydi"}, tokens)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Tokenize("   "))
	})
}
