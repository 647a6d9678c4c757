package enrich

import (
	"sync"

	"github.com/poiesic/librarian/core"
)

// JobRegistry tracks enrichment jobs for the lifetime of the process.
// Jobs are never persisted; a restart forgets them, which is fine
// because enrichment is best effort and re-triggered by later queries.
type JobRegistry struct {
	mu     sync.Mutex
	nextID uint64
	jobs   map[uint64]*core.EnrichmentJob
	order  []uint64
}

// NewJobRegistry creates an empty registry.
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[uint64]*core.EnrichmentJob)}
}

// add registers a new job and returns its ID.
func (r *JobRegistry) add(job *core.EnrichmentJob) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	job.ID = r.nextID
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
	return job.ID
}

// update applies fn to the job under the registry lock.
func (r *JobRegistry) update(id uint64, fn func(job *core.EnrichmentJob)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[id]; ok {
		fn(job)
	}
}

// Job returns a copy of the job with the given ID.
func (r *JobRegistry) Job(id uint64) (core.EnrichmentJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return core.EnrichmentJob{}, false
	}
	return *job, true
}

// Jobs returns copies of all jobs in creation order.
func (r *JobRegistry) Jobs() []core.EnrichmentJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.EnrichmentJob, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.jobs[id])
	}
	return out
}
