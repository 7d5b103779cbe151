// Package filter applies ordered pattern/replacement rules to queries.
//
// Rules are compiled once at configuration load and applied as a fold:
// each rule rewrites the output of the previous one. A rule that does
// not match is a no-op.
package filter
