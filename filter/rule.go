package filter

import (
	"fmt"
	"regexp"
)

// Rule is a single query filter as it appears in configuration.
//
// Pattern is an RE2 regular expression. ReplaceWith is substituted
// literally for every non-overlapping match.
type Rule struct {
	Name        string
	Pattern     string
	ReplaceWith string
}

// CompiledRule is a Rule whose pattern has been validated and compiled.
// Compiled rules are immutable and safe for concurrent use.
type CompiledRule struct {
	name        string
	re          *regexp.Regexp
	replaceWith string
}

// Name returns the rule's configured name.
func (r CompiledRule) Name() string { return r.name }

// Compile validates and compiles an ordered rule list.
//
// Validation happens here, at configuration load, never at apply time:
// empty names, duplicate names, and patterns that fail to compile all
// reject the whole list. The returned slice preserves input order.
func Compile(rules []Rule) ([]CompiledRule, error) {
	compiled := make([]CompiledRule, 0, len(rules))
	seen := make(map[string]struct{}, len(rules))

	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("%w: rule at index %d", ErrEmptyName, i)
		}
		if _, dup := seen[rule.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, rule.Name)
		}
		seen[rule.Name] = struct{}{}

		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrBadPattern, rule.Name, err)
		}

		compiled = append(compiled, CompiledRule{
			name:        rule.Name,
			re:          re,
			replaceWith: rule.ReplaceWith,
		})
	}

	return compiled, nil
}
