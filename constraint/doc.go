// Package constraint evaluates intent constraint expressions against
// candidate patterns using CEL (Common Expression Language).
//
// String-valued constraints are treated as CEL expressions over a small set
// of pattern variables (confidence, complexity, component_count, licenses,
// names, capabilities). Non-string constraints are scoring hints consumed
// elsewhere and are ignored here.
package constraint
