package taxonomy

import (
	"fmt"
	"strings"
)

// Relation identifies the kind of a directed edge between two projects.
type Relation string

const (
	// RelationCompatibleWith asserts that two projects are known to work well
	// together. This is the only kind the compatibility scorer consumes.
	RelationCompatibleWith Relation = "compatible-with"

	// RelationConflictsWith asserts that two projects are known to clash when
	// combined, for example overlapping port usage or incompatible licenses.
	RelationConflictsWith Relation = "conflicts-with"

	// RelationRequires asserts that the source project needs the target
	// project to function.
	RelationRequires Relation = "requires"

	// RelationAlternativeTo asserts that the source project can stand in for
	// the target project in the same role.
	RelationAlternativeTo Relation = "alternative-to"

	// RelationExtends asserts that the source project builds on top of the
	// target project.
	RelationExtends Relation = "extends"
)

var allRelations = []Relation{
	RelationCompatibleWith,
	RelationConflictsWith,
	RelationRequires,
	RelationAlternativeTo,
	RelationExtends,
}

var relationSet = func() map[Relation]struct{} {
	set := make(map[Relation]struct{}, len(allRelations))
	for _, r := range allRelations {
		set[r] = struct{}{}
	}
	return set
}()

// IsValid returns true if the relation kind is part of the closed enumeration.
func (r Relation) IsValid() bool {
	_, ok := relationSet[r]
	return ok
}

// String returns the string representation of the relation kind.
func (r Relation) String() string {
	return string(r)
}

// ParseRelation parses a string into a Relation value. Lookup is
// case-insensitive and accepts underscores in place of hyphens.
// Returns an error if the string names no known relation kind.
func ParseRelation(s string) (Relation, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	r := Relation(normalized)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown relation kind: %q", s)
	}
	return r, nil
}

// AllRelations returns every valid relation kind in declaration order.
// The returned slice is a copy and safe to modify.
func AllRelations() []Relation {
	out := make([]Relation, len(allRelations))
	copy(out, allRelations)
	return out
}
