package evolver

import "fmt"

// Kind selects the direction an evolution pushes a pattern in.
type Kind string

const (
	// KindScale evolves a pattern for higher load: caching in front of
	// databases, load balancing in front of web frameworks, queues to
	// decouple heavy work.
	KindScale Kind = "scale"

	// KindHarden evolves a pattern for security: authentication and
	// monitoring coverage, and replacement of components with a poor
	// security track record.
	KindHarden Kind = "harden"

	// KindTrimCost evolves a pattern for lower operational cost:
	// consolidating roles onto multi-capability components and swapping
	// restrictive licenses for permissive alternatives.
	KindTrimCost Kind = "trim-cost"
)

// IsValid returns true if the evolution kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindScale, KindHarden, KindTrimCost:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a string into a Kind value.
// Returns an error if the string is not a valid evolution kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid evolution kind: %s", s)
	}
	return kind, nil
}

// AllKinds returns all valid evolution kinds.
func AllKinds() []Kind {
	return []Kind{KindScale, KindHarden, KindTrimCost}
}

// Action says what a proposed change does to the pattern.
type Action string

const (
	// ActionAdd introduces a new component for a capability the pattern
	// lacks.
	ActionAdd Action = "add"

	// ActionReplace swaps one component for an alternative.
	ActionReplace Action = "replace"

	// ActionConsolidate moves a role onto a component already in the
	// pattern, removing the now redundant one.
	ActionConsolidate Action = "consolidate"
)

// IsValid returns true if the action is valid.
func (a Action) IsValid() bool {
	switch a {
	case ActionAdd, ActionReplace, ActionConsolidate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}
