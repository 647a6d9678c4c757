// Package router decides which matching strategies run for a query.
//
// Routing is a pure function over the normalized query: an ordered table
// of (predicate, bucket set, reason) rules is evaluated top to bottom and
// the first matching rule wins. The emitted bucket order is a contract:
// it is the strategy priority order concat fusion dedupes by.
package router
