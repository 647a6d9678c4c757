// Package freshness tracks how completely each library item is covered
// by the derived vector and graph indexes. State is never stored: the
// tracker persists raw counters and re-derives the state on every read,
// so late-arriving chunks can regress an item without any transition
// bookkeeping.
package freshness
