// Package search runs the strategies selected by the router
// concurrently and collects their ranked results. Each strategy
// executes on a shared worker pool under its own deadline; a slow or
// failing strategy degrades the result set without aborting the rest.
package search
