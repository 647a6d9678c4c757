// Package enrich fires best-effort graph enrichment for items whose
// derived indexes lag behind ingestion. Admission goes through a token
// bucket with partial grants, so a burst of queries degrades to less
// enrichment instead of queueing work. Jobs run detached from the
// triggering query on a worker pool and record their outcome in an
// in-process registry.
package enrich
