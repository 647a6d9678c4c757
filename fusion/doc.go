// Package fusion merges the ranked lists produced by individual search
// strategies into a single final ranking. Two modes are supported:
// concat, which preserves the router's bucket priority and keeps the
// first occurrence of each item, and reciprocal rank fusion (RRF),
// which rewards items that appear near the top of several lists.
package fusion
