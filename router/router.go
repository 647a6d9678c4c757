package router

import (
	"log/slog"

	"github.com/poiesic/librarian/core"
)

// Mode selects how routing decisions are made.
type Mode string

const (
	// ModeRuleBased evaluates the ordered rule table; the first matching
	// rule wins.
	ModeRuleBased Mode = "rule_based"
	// ModeStatic bypasses rule evaluation and always selects every
	// bucket. Exists for A/B comparison against rule-based routing.
	ModeStatic Mode = "static"
)

// StaticReason is the decision reason reported in static mode.
const StaticReason = "static"

// staticBuckets is the fixed superset bucket list returned in static
// mode. Dispatch behavior must match a rule selecting all buckets.
var staticBuckets = []core.StrategyKind{
	core.StrategyExact,
	core.StrategyLemma,
	core.StrategySemantic,
}

// Router maps a query to an ordered set of strategy buckets.
// Routing is deterministic and side-effect-free: pattern evaluation only,
// no I/O.
type Router struct {
	mode   Mode
	rules  []Rule
	logger *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithMode sets the routing mode. Default is ModeRuleBased.
func WithMode(mode Mode) Option {
	return func(r *Router) error {
		if mode != ModeRuleBased && mode != ModeStatic {
			return ErrInvalidMode
		}
		r.mode = mode
		return nil
	}
}

// WithRules replaces the default rule table. The table is evaluated in
// order and must end with a rule that always matches; rules are validated
// on construction.
func WithRules(rules []Rule) Option {
	return func(r *Router) error {
		if len(rules) == 0 {
			return ErrEmptyRuleTable
		}
		r.rules = rules
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates a Router with the default rule table.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		mode:   ModeRuleBased,
		rules:  DefaultRules(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	for i := range r.rules {
		if err := r.rules[i].validate(); err != nil {
			return nil, err
		}
	}
	if !r.rules[len(r.rules)-1].catchAll() {
		return nil, ErrNoCatchAllRule
	}

	return r, nil
}

// Mode returns the configured routing mode.
func (r *Router) Mode() Mode {
	return r.mode
}

// Route maps a query to a RouteDecision. In rule-based mode the ordered
// rule table is evaluated top to bottom and the first matching rule wins;
// lower-priority rules are not consulted. Bucket order in the decision is
// the winning rule's declared order.
func (r *Router) Route(query core.Query) core.RouteDecision {
	if r.mode == ModeStatic {
		return core.RouteDecision{
			Buckets: cloneBuckets(staticBuckets),
			Reason:  StaticReason,
		}
	}

	for i := range r.rules {
		if r.rules[i].matches(query) {
			r.logger.Debug("route rule matched", "rule", r.rules[i].Name, "query", query.Normalized())
			return core.RouteDecision{
				Buckets: cloneBuckets(r.rules[i].Buckets),
				Reason:  r.rules[i].Name,
			}
		}
	}

	// Unreachable: the table always ends with a catch-all rule.
	return core.RouteDecision{
		Buckets: cloneBuckets(staticBuckets),
		Reason:  StaticReason,
	}
}

func cloneBuckets(buckets []core.StrategyKind) []core.StrategyKind {
	out := make([]core.StrategyKind, len(buckets))
	copy(out, buckets)
	return out
}
