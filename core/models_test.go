package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("ulysses/joyce")
		id2 := IDFromContent("ulysses/joyce")
		assert.Equal(t, id1, id2)
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		id1 := IDFromContent("ulysses/joyce")
		id2 := IDFromContent("dubliners/joyce")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content has an id", func(t *testing.T) {
		assert.NotPanics(t, func() { IDFromContent("") })
	})
}

func TestNewQuery(t *testing.T) {
	q := NewQuery("  What WAS the Title? ", Scope{OwnerID: "alice"})
	assert.Equal(t, []string{"what", "was", "the", "title"}, q.Tokens)
	assert.Equal(t, "what was the title", q.Normalized())
	assert.Equal(t, "alice", q.Scope.OwnerID)
}

func TestStrategyKindString(t *testing.T) {
	assert.Equal(t, "exact", StrategyExact.String())
	assert.Equal(t, "lemma", StrategyLemma.String())
	assert.Equal(t, "semantic", StrategySemantic.String())
	assert.Equal(t, "unknown", StrategyKind(0).String())
}
