package router

import "errors"

var (
	// ErrInvalidMode is returned for an unknown routing mode.
	ErrInvalidMode = errors.New("invalid router mode")

	// ErrEmptyRuleTable is returned when WithRules is given no rules.
	ErrEmptyRuleTable = errors.New("rule table cannot be empty")

	// ErrNoCatchAllRule is returned when the rule table does not end with
	// an always-matching rule.
	ErrNoCatchAllRule = errors.New("rule table must end with a catch-all rule")

	// ErrUnnamedRule is returned when a rule has no reason tag.
	ErrUnnamedRule = errors.New("rule must have a name")
)
