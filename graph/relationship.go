package graph

import (
	"fmt"

	"github.com/MartiniMaung/loom/taxonomy"
)

// Relationship represents a directed, weighted edge between two projects.
// An edge is identified by the (Source, Target, Kind) triple; re-adding the
// same triple updates strength and evidence rather than duplicating the edge.
type Relationship struct {
	// Source is the source project name.
	Source string `json:"source"`

	// Target is the target project name.
	Target string `json:"target"`

	// Kind is the relation kind (e.g., taxonomy.RelationCompatibleWith).
	Kind taxonomy.Relation `json:"kind"`

	// Strength is the degree of confidence in the pairing, in [0.0, 1.0].
	Strength float64 `json:"strength"`

	// Evidence is a free-text justification for the edge.
	Evidence string `json:"evidence,omitempty"`
}

// NewRelationship creates a Relationship with full strength and no evidence.
func NewRelationship(source, target string, kind taxonomy.Relation) Relationship {
	return Relationship{
		Source:   source,
		Target:   target,
		Kind:     kind,
		Strength: 1.0,
	}
}

// WithStrength sets the edge strength and returns the relationship for chaining.
func (r Relationship) WithStrength(strength float64) Relationship {
	r.Strength = strength
	return r
}

// WithEvidence sets the evidence text and returns the relationship for chaining.
func (r Relationship) WithEvidence(evidence string) Relationship {
	r.Evidence = evidence
	return r
}

// Validate checks that the relationship is well-formed: non-empty distinct
// endpoints, a known relation kind, and strength within [0.0, 1.0].
func (r Relationship) Validate() error {
	if r.Source == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidRelationship)
	}
	if r.Target == "" {
		return fmt.Errorf("%w: target is required", ErrInvalidRelationship)
	}
	if r.Source == r.Target {
		return fmt.Errorf("%w: self-referential edge on %q", ErrInvalidRelationship, r.Source)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown relation kind %q", ErrInvalidRelationship, r.Kind)
	}
	if r.Strength < 0.0 || r.Strength > 1.0 {
		return fmt.Errorf("%w: strength %.2f outside [0.0, 1.0]", ErrInvalidRelationship, r.Strength)
	}
	return nil
}

// edgeKey identifies an edge by its (source, target, kind) triple.
type edgeKey struct {
	source string
	target string
	kind   taxonomy.Relation
}
