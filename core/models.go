package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for library items.
// It is generated using content-based hashing of a stable item reference.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// StrategyKind identifies a matching technique.
type StrategyKind int

const (
	// StrategyExact matches the query text verbatim.
	StrategyExact StrategyKind = iota + 1
	// StrategyLemma matches on normalized word base forms.
	StrategyLemma
	// StrategySemantic matches on embedding similarity.
	StrategySemantic
)

// String returns the lowercase name of the strategy kind.
func (k StrategyKind) String() string {
	switch k {
	case StrategyExact:
		return "exact"
	case StrategyLemma:
		return "lemma"
	case StrategySemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Scope narrows a query to an owner's library, and optionally a single item.
// A zero ItemID means the whole library.
type Scope struct {
	OwnerID string
	ItemID  ID
}

// Query is a normalized search request. Immutable once constructed.
type Query struct {
	Raw    string
	Tokens []string
	Scope  Scope
}

// NewQuery constructs a Query from raw text, normalizing it into tokens.
func NewQuery(raw string, scope Scope) Query {
	return Query{
		Raw:    raw,
		Tokens: Tokenize(raw),
		Scope:  scope,
	}
}

// Normalized returns the normalized query text (lowercased tokens joined
// by single spaces). Router rule patterns match against this form.
func (q Query) Normalized() string {
	return joinTokens(q.Tokens)
}

// RouteDecision is the router's output for one query: the ordered set of
// strategies to dispatch and the rule that selected them. Bucket order is
// the execution priority order used by concat fusion.
type RouteDecision struct {
	Buckets []StrategyKind
	Reason  string
}

// ScoredItem is one (item, score) pair in a ranked list.
// Rank is the position in the containing slice.
type ScoredItem struct {
	Item  ID
	Score float32
}

// StrategyStatus records how a dispatched strategy settled.
type StrategyStatus int

const (
	// StatusOk means the strategy returned a result list.
	StatusOk StrategyStatus = iota + 1
	// StatusTimedOut means the strategy exceeded its per-dispatch timeout.
	StatusTimedOut
	// StatusFailed means the strategy adapter returned an error.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s StrategyStatus) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusTimedOut:
		return "timed_out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StrategyResult is the outcome of one strategy dispatch. Items are in
// rank order. Err carries the cause when Status is StatusFailed.
type StrategyResult struct {
	Strategy StrategyKind
	Items    []ScoredItem
	Status   StrategyStatus
	Err      error
}

// FusedResult is the final answer for one query: the merged ranked list
// plus routing and execution metadata. ExecutedStrategies lists only the
// strategies that settled with StatusOk, in bucket order.
type FusedResult struct {
	Items              []ScoredItem
	RouterMode         string
	RouterReason       string
	SelectedBuckets    []StrategyKind
	ExecutedStrategies []StrategyKind
}

// ItemEntry is a library item in the local index: its stable reference,
// owner, display title and embedding vector.
type ItemEntry struct {
	Id         ID
	OwnerID    string
	Title      string
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}
