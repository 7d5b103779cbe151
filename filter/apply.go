package filter

// Apply runs the compiled rules over input in list order.
//
// Each rule replaces all non-overlapping matches in the current text,
// so a rule sees the output of every rule before it. Replacement is
// literal: no capture-group expansion. Apply has no state and cannot
// fail; the same rules and input always produce the same output.
func Apply(rules []CompiledRule, input string) string {
	out := input
	for _, rule := range rules {
		out = rule.re.ReplaceAllLiteralString(out, rule.replaceWith)
	}
	return out
}
