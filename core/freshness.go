package core

import "time"

// FreshnessState describes how complete an item's derived indexes are.
type FreshnessState int

const (
	// FreshnessNotReady means neither index has full coverage.
	FreshnessNotReady FreshnessState = iota + 1
	// FreshnessVectorReady means embeddings cover the item but graph links do not.
	FreshnessVectorReady
	// FreshnessGraphReady means graph links cover the item but embeddings do not.
	// Reachable only when graph processing outruns embedding.
	FreshnessGraphReady
	// FreshnessFullyReady means both indexes have full coverage.
	FreshnessFullyReady
)

// String returns the lowercase name of the state.
func (s FreshnessState) String() string {
	switch s {
	case FreshnessNotReady:
		return "not_ready"
	case FreshnessVectorReady:
		return "vector_ready"
	case FreshnessGraphReady:
		return "graph_ready"
	case FreshnessFullyReady:
		return "fully_ready"
	default:
		return "unknown"
	}
}

// CoverageThresholds are the coverage ratios at which an index counts as
// complete. Full coverage (1.0) by default.
type CoverageThresholds struct {
	Vector float64
	Graph  float64
}

// DefaultThresholds returns thresholds requiring full coverage.
func DefaultThresholds() CoverageThresholds {
	return CoverageThresholds{Vector: 1.0, Graph: 1.0}
}

// FreshnessRecord tracks per-(owner, item) indexing completeness.
// Counters only grow; TotalChunks growth can regress the derived state
// because freshness reflects current truth, not monotonic progress.
type FreshnessRecord struct {
	OwnerID           string
	ItemID            ID
	TotalChunks       uint64
	EmbeddedChunks    uint64
	GraphLinkedChunks uint64
	UpdatedAt         time.Time
}

// VectorCoverage returns EmbeddedChunks/TotalChunks, or 0 when the item
// has no chunks.
func (r *FreshnessRecord) VectorCoverage() float64 {
	if r.TotalChunks == 0 {
		return 0
	}
	return float64(r.EmbeddedChunks) / float64(r.TotalChunks)
}

// GraphCoverage returns GraphLinkedChunks/TotalChunks, or 0 when the item
// has no chunks.
func (r *FreshnessRecord) GraphCoverage() float64 {
	if r.TotalChunks == 0 {
		return 0
	}
	return float64(r.GraphLinkedChunks) / float64(r.TotalChunks)
}

// State derives the freshness state from the counters. It is a pure
// function re-evaluated on every read, never stored.
func (r *FreshnessRecord) State(t CoverageThresholds) FreshnessState {
	vectorDone := r.VectorCoverage() >= t.Vector
	graphDone := r.GraphCoverage() >= t.Graph

	switch {
	case vectorDone && graphDone:
		return FreshnessFullyReady
	case vectorDone:
		return FreshnessVectorReady
	case graphDone:
		return FreshnessGraphReady
	default:
		return FreshnessNotReady
	}
}

// Backlog returns the number of chunks still missing graph links.
func (r *FreshnessRecord) Backlog() uint64 {
	if r.GraphLinkedChunks >= r.TotalChunks {
		return 0
	}
	return r.TotalChunks - r.GraphLinkedChunks
}

// JobStatus records the lifecycle of an enrichment job.
type JobStatus int

const (
	// JobPending means the job is registered but not started.
	JobPending JobStatus = iota + 1
	// JobRunning means the job is processing chunks.
	JobRunning
	// JobSucceeded means every requested chunk was enriched.
	JobSucceeded
	// JobPartiallySucceeded means the job ran with fewer tokens than
	// requested, or stopped early with some chunks enriched.
	JobPartiallySucceeded
	// JobSkipped means the admission gate granted no tokens.
	JobSkipped
	// JobFailed means the job enriched nothing.
	JobFailed
)

// String returns the lowercase name of the job status.
func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobSucceeded:
		return "succeeded"
	case JobPartiallySucceeded:
		return "partially_succeeded"
	case JobSkipped:
		return "skipped"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EnrichmentJob is the in-process record of one best-effort enrichment
// run. Jobs are ephemeral; they are never persisted.
type EnrichmentJob struct {
	ID         uint64
	OwnerID    string
	ItemID     ID
	Reason     string
	MaxItems   int
	Timeout    time.Duration
	Status     JobStatus
	Requested  int
	Granted    int
	Enriched   uint64
	Failures   int
	StartedAt  time.Time
	FinishedAt time.Time
}
