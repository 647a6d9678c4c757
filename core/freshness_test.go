package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreshnessState(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		name                       string
		total, embedded, graphLinked uint64
		want                       FreshnessState
	}{
		{"empty item", 0, 0, 0, FreshnessNotReady},
		{"nothing indexed", 10, 0, 0, FreshnessNotReady},
		{"partial embeddings", 10, 5, 0, FreshnessNotReady},
		{"vector complete", 10, 10, 0, FreshnessVectorReady},
		{"graph outran vector", 10, 5, 10, FreshnessGraphReady},
		{"both complete", 10, 10, 10, FreshnessFullyReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &FreshnessRecord{
				OwnerID:           "alice",
				ItemID:            1,
				TotalChunks:       tt.total,
				EmbeddedChunks:    tt.embedded,
				GraphLinkedChunks: tt.graphLinked,
			}
			assert.Equal(t, tt.want, r.State(thresholds))
		})
	}
}

func TestFreshnessStateRegression(t *testing.T) {
	// A fully ready record regresses when new content lands.
	r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 10, EmbeddedChunks: 10, GraphLinkedChunks: 10}
	assert.Equal(t, FreshnessFullyReady, r.State(DefaultThresholds()))

	r.TotalChunks = 15
	assert.Equal(t, FreshnessNotReady, r.State(DefaultThresholds()))

	r.EmbeddedChunks = 15
	assert.Equal(t, FreshnessVectorReady, r.State(DefaultThresholds()))
}

func TestFreshnessStateCustomThresholds(t *testing.T) {
	r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 10, EmbeddedChunks: 9, GraphLinkedChunks: 8}
	assert.Equal(t, FreshnessNotReady, r.State(DefaultThresholds()))
	assert.Equal(t, FreshnessFullyReady, r.State(CoverageThresholds{Vector: 0.9, Graph: 0.8}))
}

func TestCoverageRatios(t *testing.T) {
	t.Run("zero total chunks", func(t *testing.T) {
		r := &FreshnessRecord{OwnerID: "alice"}
		assert.Zero(t, r.VectorCoverage())
		assert.Zero(t, r.GraphCoverage())
	})

	t.Run("partial coverage", func(t *testing.T) {
		r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 4, EmbeddedChunks: 2, GraphLinkedChunks: 1}
		assert.InDelta(t, 0.5, r.VectorCoverage(), 1e-9)
		assert.InDelta(t, 0.25, r.GraphCoverage(), 1e-9)
	})
}

func TestBacklog(t *testing.T) {
	r := &FreshnessRecord{OwnerID: "alice", TotalChunks: 10, GraphLinkedChunks: 3}
	assert.Equal(t, uint64(7), r.Backlog())

	r.GraphLinkedChunks = 10
	assert.Zero(t, r.Backlog())
}
