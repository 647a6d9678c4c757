package router

import (
	"regexp"
	"strings"

	"github.com/poiesic/librarian/core"
)

// Rule is one row of the routing table: a predicate over the normalized
// query plus the bucket set and reason tag to emit when it fires.
// Exactly one predicate field should be set; a rule with no predicate
// always matches and acts as the catch-all.
//
// Predicate kinds, by field:
//   - Pattern: regular expression over the normalized query text
//   - MaxTokens: fires when the query has fewer than MaxTokens tokens
//   - Keywords: fires when the normalized query contains any keyword
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	MaxTokens int
	Keywords  []string
	Buckets   []core.StrategyKind
}

func (r *Rule) matches(query core.Query) bool {
	switch {
	case r.Pattern != nil:
		return r.Pattern.MatchString(query.Normalized())
	case r.MaxTokens > 0:
		return len(query.Tokens) < r.MaxTokens
	case len(r.Keywords) > 0:
		normalized := query.Normalized()
		for _, keyword := range r.Keywords {
			if strings.Contains(normalized, keyword) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// catchAll reports whether the rule matches every query.
func (r *Rule) catchAll() bool {
	return r.Pattern == nil && r.MaxTokens == 0 && len(r.Keywords) == 0
}

func (r *Rule) validate() error {
	if r.Name == "" {
		return ErrUnnamedRule
	}
	return core.ValidateRouteDecision(core.RouteDecision{Buckets: r.Buckets, Reason: r.Name})
}

// Default rule reasons, in priority order.
const (
	ReasonTitlePattern   = "title_pattern"
	ReasonShortQuery     = "short_query"
	ReasonConceptualHint = "conceptual_hint"
	ReasonDefault        = "default_balanced"
)

// titlePattern matches "what was/is the title/name" lookups in English
// and Turkish phrasing ("adı neydi", "ismi nedir", ...), over normalized
// text. Both ASCII and dotless-ı spellings are accepted.
var titlePattern = regexp.MustCompile(
	`(what (was|is) the (title|name)|(ad[iı]|ismi|ismı) (neydi|nedir|ne idi|neidi))`)

// conceptualHints is the curated vocabulary marking abstract or
// conceptual questions. Operationally tuned lists replace this via
// WithRules.
var conceptualHints = []string{
	"meaning of",
	"concept of",
	"definition of",
	"idea of",
	"philosophy of",
	"nedir",
	"ne demek",
	"kavram",
	"anlam",
}

// DefaultRules returns the built-in routing table, in priority order.
// The last rule is the catch-all.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    ReasonTitlePattern,
			Pattern: titlePattern,
			Buckets: []core.StrategyKind{core.StrategyExact, core.StrategyLemma},
		},
		{
			Name:      ReasonShortQuery,
			MaxTokens: 3,
			Buckets:   []core.StrategyKind{core.StrategyExact, core.StrategyLemma},
		},
		{
			Name:     ReasonConceptualHint,
			Keywords: conceptualHints,
			Buckets:  []core.StrategyKind{core.StrategyLemma, core.StrategySemantic, core.StrategyExact},
		},
		{
			Name:    ReasonDefault,
			Buckets: []core.StrategyKind{core.StrategyExact, core.StrategyLemma},
		},
	}
}
