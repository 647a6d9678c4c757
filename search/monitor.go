package search

import "github.com/poiesic/librarian/core"

// Monitor provides hooks to observe the strategy fan-out.
// Implement this interface to track individual strategy outcomes during search.
type Monitor interface {
	Start(query core.Query, decision core.RouteDecision)
	StrategyFinished(result core.StrategyResult)
	Finish(results []core.StrategyResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query, _ core.RouteDecision) {}
func (n *noopMonitor) StrategyFinished(_ core.StrategyResult)   {}
func (n *noopMonitor) Finish(_ []core.StrategyResult)           {}
